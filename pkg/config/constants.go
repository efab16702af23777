package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SHOP_DB_DSN"
	EnvDBHost = "SHOP_DB_HOST"
	EnvDBUser = "SHOP_DB_USER"
	EnvDBName = "SHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
