package config

const EnvPrefix = "KIATU"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "KIATU_APP_ENV"
	EnvPort       = "KIATU_APP_PORT"
	EnvDBDSN      = "KIATU_DB_DSN"
	EnvDBHost     = "KIATU_DB_HOST"
	EnvDBUser     = "KIATU_DB_USER"
	EnvDBPassword = "KIATU_DB_PASSWORD"
	EnvDBName     = "KIATU_DB_NAME"
	EnvRedisURL   = "KIATU_REDIS_URL"
	EnvJWTSecret  = "KIATU_JWT_SECRET"
	EnvJWTIssuer  = "KIATU_JWT_ISSUER"

	EnvDeliverySameMetroFee = "KIATU_DELIVERY_SAME_METRO_FEE"
	EnvDeliveryDistantFee   = "KIATU_DELIVERY_DISTANT_FEE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
