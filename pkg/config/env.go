package config

const EnvPrefix = "MEDITRACK"

const (
	AppEnvDev         = "dev"
	AppEnvDevelopment = "development"
	AppEnvProd        = "prod"
	AppEnvProduction  = "production"
)

const (
	EnvAppEnv       = "MEDITRACK_APP_ENV"
	EnvPort         = "MEDITRACK_APP_PORT"
	EnvDBDSN        = "MEDITRACK_DB_DSN"
	EnvDBHost       = "MEDITRACK_DB_HOST"
	EnvDBUser       = "MEDITRACK_DB_USER"
	EnvDBName       = "MEDITRACK_DB_NAME"
	EnvDBTimeout    = "MEDITRACK_DB_TIMEOUT"
	EnvRedisURL     = "MEDITRACK_REDIS_URL"
	EnvJWTSecret    = "MEDITRACK_AUTH_JWT_SECRET"
	EnvJWTIssuer    = "MEDITRACK_AUTH_ISSUER"
	EnvICUCritical  = "MEDITRACK_ALERTS_ICU_CRITICAL"
	EnvAlertsDedupe = "MEDITRACK_ALERTS_DEDUPE"
	EnvAvgSpeed     = "MEDITRACK_DISPATCH_AVG_SPEED_KMH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
