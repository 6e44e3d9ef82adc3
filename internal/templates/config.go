package templates

const configTemplate = `port: 8881
host: localhost
environment: dev
public_url: https://blart.ai
filesystem_type: local
assets_dir: ./data/assets

db:
  driver: sqlite
  dsn: file:./data/main.db

# s3:
#   endpoint_url: "https://s3.us-east-1.amazonaws.com"
#   region_name: "us-east-1"
#   bucket_name: "blart-artworks"
#   folder: "public"
#   vanity_url: "https://images.blart.ai"

# gcs:
#   bucket_name: "blart-artworks"
#   credentials_file: "./gcs-credentials.json"

# supabase:
#   bucket_name: "artworks"

gemini:
  model: gemini-2.5-flash-image

# redis:
#   addr: "localhost:6379"

generation:
  batch_delay: 2s
  max_batch_size: 50
  daily_count: 10
  fetch_workers: 3
  fetch_timeout: 15s
  max_reference_edge: 2048
  screen_prompts: false
  # webhook_url: "https://hooks.example.com/blart"

downloads:
  daily_limit: 20
`

const envTemplate = `# Copy to .env and fill in.
GEMINI_API_KEY=
OPENAI_API_KEY=
ADMIN_SECRET=
CRON_SECRET=
SUPABASE_URL=
SUPABASE_SERVICE_ROLE_KEY=
BLART_S3_ACCESS_KEY=
BLART_S3_SECRET_KEY=
BLART_REDIS_PASSWORD=
`

func GetConfigTemplate() string {
	return configTemplate
}

func GetEnvTemplate() string {
	return envTemplate
}
