package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blart-ai/blart-server/internal/app"
	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Start the blart server",
	RunE:  runApp,
}

func init() {
	flags := Cmd.Flags()

	flags.Int("port", config.DefaultPort, "Port to run the server on")
	flags.String("host", config.DefaultHost, "Host to run the server on")
	flags.String("filesystem-type", config.FilesystemLocal, "Blob storage: local, s3, gcs or supabase")
	flags.String("assets-dir", config.DefaultAssetsDir, "Directory for local blob storage")
	flags.String("public-url", config.DefaultPublicURL, "Public site URL used in gallery links")

	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("filesystem_type", flags.Lookup("filesystem-type"))
	viper.BindPFlag("assets_dir", flags.Lookup("assets-dir"))
	viper.BindPFlag("public_url", flags.Lookup("public-url"))
}

func runApp(_ *cobra.Command, _ []string) error {
	app, err := createNewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := server.NewServer(app.Config(), app.Logger)
	if err != nil {
		return err
	}
	srv.SetupRoutes(app)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-signalc:
		app.Logger.Info("shutting down", zap.String("signal", sig.String()))
		return srv.Stop(app.Context())
	}
}

func createNewApp() (*app.App, error) {
	a, err := app.NewApp(
		config.MustGetConfig(),
		app.WithDBInitialization(),
		app.WithFileStorage(nil),
		app.WithRateLimiter(nil),
		app.WithPromptScreener(),
		app.WithGeneration(),
	)
	if err != nil {
		return nil, err
	}

	if a.DB() == nil || a.Generation() == nil {
		a.Close()
		return nil, fmt.Errorf("server dependencies failed to initialize, see logs above")
	}

	return a, nil
}
