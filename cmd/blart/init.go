package cmd

import (
	"fmt"

	"github.com/blart-ai/blart-server/internal/templates"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write example config and env files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cmd.Flags().GetString("dir")
		if err != nil {
			return err
		}

		written, err := templates.WriteExampleFiles(dir)
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Println("Example files already exist, nothing written")
			return nil
		}
		for _, path := range written {
			fmt.Printf("Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().String("dir", ".", "Directory to write the example files into")
}
