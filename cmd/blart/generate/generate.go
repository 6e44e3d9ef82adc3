package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blart-ai/blart-server/internal/app"
	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/services/generation"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

type appKey struct{}

var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate artworks from the command line",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(
			config.MustGetConfig(),
			app.WithDBInitialization(),
			app.WithFileStorage(nil),
			app.WithPromptScreener(),
			app.WithGeneration(),
		)
		if err != nil {
			return err
		}
		if a.Generation() == nil {
			a.Close()
			return fmt.Errorf("generation service failed to initialize, see logs above")
		}

		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a, ok := cmd.Context().Value(appKey{}).(*app.App); ok {
			a.Close()
		}
	},
}

func init() {
	stylesCmd := &cobra.Command{
		Use:   "styles",
		Short: "List the active styles",
		RunE:  listStyles,
	}

	singleCmd := &cobra.Command{
		Use:   "single [style-id]",
		Short: "Generate one artwork for a style",
		Args:  cobra.ExactArgs(1),
		RunE:  generateSingle,
	}
	singleCmd.Flags().String("orientation", "", "portrait, landscape or square (random when empty)")
	singleCmd.Flags().String("prompt", "", "Extra prompt guidance")
	singleCmd.Flags().String("notes", "", "Reference notes")
	singleCmd.Flags().Bool("publish", false, "Publish immediately instead of sending to review")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate a batch of artworks",
		RunE:  generateBatch,
	}
	batchCmd.Flags().Int("count", config.DefaultDailyCount, "Number of artworks to generate")
	batchCmd.Flags().String("style", "", "Style id to pin (rotates all active styles when empty)")
	batchCmd.Flags().String("orientation", "", "portrait, landscape or square (random per item when empty)")
	batchCmd.Flags().Bool("publish", false, "Publish immediately instead of sending to review")

	Cmd.AddCommand(stylesCmd, singleCmd, batchCmd)
}

func appFrom(cmd *cobra.Command) *app.App {
	return cmd.Context().Value(appKey{}).(*app.App)
}

func listStyles(cmd *cobra.Command, _ []string) error {
	styles, err := appFrom(cmd).Generation().ListActiveStyles(cmd.Context())
	if err != nil {
		return err
	}

	for _, style := range styles {
		fmt.Printf("%s  %-16s %d reference images\n", style.ID, style.Name, len(style.ReferenceImages))
	}
	return nil
}

func generateSingle(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	orientation, _ := flags.GetString("orientation")
	prompt, _ := flags.GetString("prompt")
	notes, _ := flags.GetString("notes")
	publish, _ := flags.GetBool("publish")

	if err := checkOrientation(orientation); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := appFrom(cmd).Generation().Generate(ctx, args[0], generation.Options{
		Orientation:    models.Orientation(orientation),
		CustomPrompt:   prompt,
		ReferenceNotes: notes,
		AutoPublish:    publish,
	})

	return printJSON(result)
}

func generateBatch(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	count, _ := flags.GetInt("count")
	styleID, _ := flags.GetString("style")
	orientation, _ := flags.GetString("orientation")
	publish, _ := flags.GetBool("publish")

	if err := checkOrientation(orientation); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := mpb.NewWithContext(ctx,
		mpb.WithWidth(60),
		mpb.WithRefreshRate(180*time.Millisecond),
	)
	bar := progress.AddBar(int64(count),
		mpb.PrependDecorators(
			decor.Name("generating", decor.WC{W: 12, C: decor.DidentRight}),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO),
		),
	)

	failed := 0
	batch := appFrom(cmd).Generation().BatchGenerate(ctx, count, generation.BatchOptions{
		StyleID:     styleID,
		Orientation: models.Orientation(orientation),
		AutoPublish: publish,
		OnItem: func(_ int, result generation.Result) {
			if !result.Success {
				failed++
			}
			bar.Increment()
		},
	})

	// the batch may be clamped or cut short
	bar.SetTotal(int64(len(batch.Results)), true)
	progress.Wait()

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d generations failed\n", failed, len(batch.Results))
	}
	return printJSON(batch)
}

func checkOrientation(value string) error {
	if value != "" && !models.Orientation(value).Valid() {
		return fmt.Errorf("invalid orientation %q: use portrait, landscape or square", value)
	}
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
