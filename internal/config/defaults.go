package config

import "time"

const (
	DefaultPort      = 8881
	DefaultHost      = "localhost"
	DefaultEnvFile   = ".env"
	DefaultAssetsDir = "./data/assets"
	DefaultPublicURL = "https://blart.ai"

	DefaultDBDriver = DBDriverSQLite
	DefaultDBDSN    = "file:./data/main.db"

	DefaultGeminiModel = "gemini-2.5-flash-image"
)

const (
	DefaultBatchDelay       = 2 * time.Second
	DefaultMaxBatchSize     = 50
	DefaultDailyCount       = 10
	DefaultFetchWorkers     = 3
	DefaultFetchTimeout     = 15 * time.Second
	DefaultMaxReferenceEdge = 2048

	DefaultDownloadDailyLimit = 20
)
