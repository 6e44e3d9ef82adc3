package cmd

import (
	"context"
	"fmt"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/db"
	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/db/repository"
	"github.com/blart-ai/blart-server/internal/utils/hashutil"
	"github.com/blart-ai/blart-server/internal/utils/randutil"

	"github.com/spf13/cobra"
)

type repoKey struct{}

var Cmd = &cobra.Command{
	Use:   "api-key",
	Short: "Manage admin API keys",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		driver, err := db.NewConnection(cmd.Context(), config.MustGetConfig())
		if err != nil {
			return err
		}

		cmd.SetContext(context.WithValue(cmd.Context(), repoKey{}, repository.NewAPIKeyRepository(driver.GetDB())))
		return nil
	},
}

func init() {
	setupAPIKeyCmd(Cmd)
}

func repoFrom(cmd *cobra.Command) repository.IAPIKeyRepository {
	return cmd.Context().Value(repoKey{}).(repository.IAPIKeyRepository)
}

func setupAPIKeyCmd(cmd *cobra.Command) {
	newAPIKeyCmd := &cobra.Command{
		Use:   "new",
		Short: "Creates a new API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := randutil.NewAPIKey()
			if err != nil {
				return err
			}

			apiKey := models.NewAPIKey(hashutil.Sha3256Hash([]byte(key)), randutil.MaskString(key, 4, 4))
			if _, err := repoFrom(cmd).Create(cmd.Context(), apiKey); err != nil {
				return err
			}

			fmt.Printf("API key created: %s\n", key)
			return nil
		},
	}

	revokeAPIKeyCmd := &cobra.Command{
		Use:   "revoke [key]",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := repoFrom(cmd).RevokeAPIKeyWithHash(cmd.Context(), hashutil.Sha3256Hash([]byte(key))); err != nil {
				return err
			}

			fmt.Printf("API key revoked: %s\n", randutil.MaskString(key, 4, 4))
			return nil
		},
	}

	listAPIKeysCmd := &cobra.Command{
		Use:   "list",
		Short: "List all API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKeys, err := repoFrom(cmd).ListAPIKeys(cmd.Context())
			if err != nil {
				return err
			}

			if len(apiKeys) == 0 {
				fmt.Println("No API keys found")
				return nil
			}

			fmt.Println("API keys:")
			for _, apiKey := range apiKeys {
				fmt.Printf("%s (Revoked: %t)\n", apiKey.KeyMask, apiKey.IsRevoked)
			}

			return nil
		},
	}

	cmd.AddCommand(newAPIKeyCmd, revokeAPIKeyCmd, listAPIKeysCmd)
}
