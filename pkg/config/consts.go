package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// LARISIN_-prefixed names so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "LARISIN_APP_ENV"
	EnvPort     = "LARISIN_APP_PORT"
	EnvDBDSN    = "LARISIN_DB_DSN"
	EnvDBHost   = "LARISIN_DB_HOST"
	EnvDBUser   = "LARISIN_DB_USER"
	EnvDBName   = "LARISIN_DB_NAME"
	EnvRedisURL = "LARISIN_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
