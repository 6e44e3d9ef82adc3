package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/blart-ai/blart-server/internal/utils/pathutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FilesystemLocal    = "local"
	FilesystemS3       = "s3"
	FilesystemGCS      = "gcs"
	FilesystemSupabase = "supabase"
)

const (
	DBDriverPostgres = "pg"
	DBDriverSQLite   = "sqlite"
	DBDriverLibSQL   = "libsql"
)

const EnvPrefix = "BLART"

type Config struct {
	Port           int    `mapstructure:"port"`
	Host           string `mapstructure:"host"`
	Environment    string `mapstructure:"environment"`
	PublicURL      string `mapstructure:"public_url"`
	AssetsDir      string `mapstructure:"assets_dir"`
	FilesystemType string `mapstructure:"filesystem_type"`
	AdminSecret    string `mapstructure:"admin_secret"`
	CronSecret     string `mapstructure:"cron_secret"`

	DB         *DBConfig        `mapstructure:"db"`
	S3         *S3Config        `mapstructure:"s3"`
	GCS        *GCSConfig       `mapstructure:"gcs"`
	Supabase   *SupabaseConfig  `mapstructure:"supabase"`
	Gemini     *GeminiConfig    `mapstructure:"gemini"`
	OpenAI     *OpenAIConfig    `mapstructure:"openai"`
	Redis      *RedisConfig     `mapstructure:"redis"`
	Generation GenerationConfig `mapstructure:"generation"`
	Downloads  DownloadsConfig  `mapstructure:"downloads"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type S3Config struct {
	Folder      string `mapstructure:"folder"`
	Region      string `mapstructure:"region_name"`
	Bucket      string `mapstructure:"bucket_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	EndpointUrl string `mapstructure:"endpoint_url"`
	VanityUrl   string `mapstructure:"vanity_url"`
}

type GCSConfig struct {
	Bucket          string `mapstructure:"bucket_name"`
	CredentialsFile string `mapstructure:"credentials_file"`
	PublicUrl       string `mapstructure:"public_url"`
}

type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
	Bucket     string `mapstructure:"bucket_name"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type GenerationConfig struct {
	BatchDelay       time.Duration `mapstructure:"batch_delay"`
	MaxBatchSize     int           `mapstructure:"max_batch_size"`
	DailyCount       int           `mapstructure:"daily_count"`
	FetchWorkers     int           `mapstructure:"fetch_workers"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	MaxReferenceEdge int           `mapstructure:"max_reference_edge"`
	ScreenPrompts    bool          `mapstructure:"screen_prompts"`
	WebhookUrl       string        `mapstructure:"webhook_url"`
}

type DownloadsConfig struct {
	DailyLimit int `mapstructure:"daily_limit"`
}

var config *Config

// LoadEnvAndConfigFiles reads the optional .env and config files and decodes
// the merged viper state into the package config.
func LoadEnvAndConfigFiles() error {
	envFile := viper.GetString("env_file")
	explicitEnv := envFile != ""
	if !explicitEnv {
		envFile = DefaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicitEnv || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if configFile := viper.GetString("config_file"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config: %w", err)
		}
	}

	setDefaults()
	return LoadConfig(true)
}

func LoadConfig(reload bool) error {
	if config != nil && !reload {
		return fmt.Errorf("config already loaded")
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return err
	}

	config = cfg
	return nil
}

func IsLoaded() bool {
	return config != nil
}

func GetConfig() *Config {
	return config
}

func MustGetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

func (c *Config) normalize() error {
	c.FilesystemType = strings.ToLower(c.FilesystemType)

	assetsDir, err := pathutil.ExpandPath(c.AssetsDir)
	if err != nil {
		return fmt.Errorf("failed to expand assets dir: %w", err)
	}
	c.AssetsDir = assetsDir

	if c.DB == nil {
		c.DB = &DBConfig{}
	}
	if c.DB.Driver == "" {
		c.DB.Driver = DefaultDBDriver
	}
	if c.DB.DSN == "" {
		c.DB.DSN = DefaultDBDSN
	}

	if c.Gemini != nil && c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}

	c.Generation.applyDefaults()
	if c.Downloads.DailyLimit <= 0 {
		c.Downloads.DailyLimit = DefaultDownloadDailyLimit
	}

	return nil
}

func (g *GenerationConfig) applyDefaults() {
	if g.BatchDelay <= 0 {
		g.BatchDelay = DefaultBatchDelay
	}
	if g.MaxBatchSize <= 0 {
		g.MaxBatchSize = DefaultMaxBatchSize
	}
	if g.DailyCount <= 0 {
		g.DailyCount = DefaultDailyCount
	}
	if g.FetchWorkers <= 0 {
		g.FetchWorkers = DefaultFetchWorkers
	}
	if g.FetchTimeout <= 0 {
		g.FetchTimeout = DefaultFetchTimeout
	}
	if g.MaxReferenceEdge <= 0 {
		g.MaxReferenceEdge = DefaultMaxReferenceEdge
	}
}

// GeminiAPIKey returns the configured image model key, or "" when unset.
func (c *Config) GeminiAPIKey() string {
	if c.Gemini == nil {
		return ""
	}
	return c.Gemini.APIKey
}

func (c *Config) GeminiModel() string {
	if c.Gemini == nil || c.Gemini.Model == "" {
		return DefaultGeminiModel
	}
	return c.Gemini.Model
}

func setDefaults() {
	viper.SetDefault("port", DefaultPort)
	viper.SetDefault("host", DefaultHost)
	viper.SetDefault("environment", "dev")
	viper.SetDefault("filesystem_type", FilesystemLocal)
	viper.SetDefault("assets_dir", DefaultAssetsDir)
	viper.SetDefault("public_url", DefaultPublicURL)
	viper.SetDefault("db.driver", DefaultDBDriver)
	viper.SetDefault("db.dsn", DefaultDBDSN)
	viper.SetDefault("gemini.model", DefaultGeminiModel)
	viper.SetDefault("generation.batch_delay", DefaultBatchDelay)
	viper.SetDefault("generation.max_batch_size", DefaultMaxBatchSize)
	viper.SetDefault("generation.daily_count", DefaultDailyCount)
	viper.SetDefault("downloads.daily_limit", DefaultDownloadDailyLimit)
}
