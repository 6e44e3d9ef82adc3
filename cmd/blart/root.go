package cmd

import (
	"fmt"
	"os"
	"strings"

	apiKey "github.com/blart-ai/blart-server/cmd/blart/apikey"
	db "github.com/blart-ai/blart-server/cmd/blart/db"
	generate "github.com/blart-ai/blart-server/cmd/blart/generate"
	run "github.com/blart-ai/blart-server/cmd/blart/run"
	"github.com/blart-ai/blart-server/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use:   "blart",
	Short: "Blart gallery server",
	Long:  "Generates, curates and serves the Blart AI art gallery",

	// Runs before this command and any subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix(config.EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(
			`-`, `_`,
			`.`, `_`,
		))
		viper.AutomaticEnv()

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		bindEnvs()

		return config.LoadEnvAndConfigFiles()
	},
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")
	pflags.String("environment", "dev", "Environment configuration: dev, test or prod")
	pflags.String("db-driver", "", "Database driver: sqlite, libsql or pg")
	pflags.String("db-dsn", "", "Database DSN (Connection URL or Path)")

	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))
	viper.BindPFlag("environment", pflags.Lookup("environment"))
	viper.BindPFlag("db.driver", pflags.Lookup("db-driver"))
	viper.BindPFlag("db.dsn", pflags.Lookup("db-dsn"))

	// api-key and generate open the database in their own pre-runs, after
	// config has loaded here.
	cobra.EnableTraverseRunHooks = true

	Cmd.AddCommand(run.Cmd, db.Cmd, apiKey.Cmd, generate.Cmd, initCmd)
	Cmd.CompletionOptions.HiddenDefaultCmd = true
}

func bindEnvs() {
	// Core settings use the BLART_ prefix, e.g. BLART_PORT
	viper.BindEnv("port")
	viper.BindEnv("host")
	viper.BindEnv("environment")
	viper.BindEnv("public_url")
	viper.BindEnv("assets_dir")
	viper.BindEnv("filesystem_type")

	viper.BindEnv("db.driver")
	viper.BindEnv("db.dsn")

	viper.BindEnv("s3.access_key")
	viper.BindEnv("s3.secret_key")
	viper.BindEnv("s3.region_name")
	viper.BindEnv("s3.bucket_name")
	viper.BindEnv("s3.folder")
	viper.BindEnv("s3.vanity_url")
	viper.BindEnv("s3.endpoint_url")

	viper.BindEnv("gcs.bucket_name")
	viper.BindEnv("gcs.credentials_file")
	viper.BindEnv("gcs.public_url")

	viper.BindEnv("supabase.bucket_name")

	viper.BindEnv("redis.addr")
	viper.BindEnv("redis.username")
	viper.BindEnv("redis.password")
	viper.BindEnv("redis.db")
	viper.BindEnv("redis.use_tls")

	viper.BindEnv("gemini.model")
	viper.BindEnv("generation.batch_delay")
	viper.BindEnv("generation.max_batch_size")
	viper.BindEnv("generation.daily_count")
	viper.BindEnv("generation.screen_prompts")
	viper.BindEnv("generation.webhook_url")
	viper.BindEnv("downloads.daily_limit")

	// External services (no BLART_ prefix)
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("supabase.url", "SUPABASE_URL")
	viper.BindEnv("supabase.service_key", "SUPABASE_SERVICE_ROLE_KEY")
	viper.BindEnv("admin_secret", "ADMIN_SECRET")
	viper.BindEnv("cron_secret", "CRON_SECRET")
}
