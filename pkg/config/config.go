package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Telegram     TelegramConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOP_DB_DSN"`
	Driver string `envconfig:"SHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOP_DB_USER"`
	LegacyPassword string `envconfig:"SHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOP_REDIS_URL"`
	Address      string        `envconfig:"SHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type TelegramConfig struct {
	BotToken        string        `envconfig:"SHOP_TELEGRAM_BOT_TOKEN"`
	APIBaseURL      string        `envconfig:"SHOP_TELEGRAM_API_BASE_URL" default:"https://api.telegram.org"`
	ReviewChannelID int64         `envconfig:"SHOP_TELEGRAM_REVIEW_CHANNEL_ID"`
	AdminChatID     int64         `envconfig:"SHOP_TELEGRAM_ADMIN_CHAT_ID"`
	ShopWebAppURL   string        `envconfig:"SHOP_TELEGRAM_WEBAPP_URL"`
	SupportChatURL  string        `envconfig:"SHOP_TELEGRAM_SUPPORT_CHAT_URL"`
	PollTimeout     time.Duration `envconfig:"SHOP_TELEGRAM_POLL_TIMEOUT" default:"30s"`
	SendTimeout     time.Duration `envconfig:"SHOP_TELEGRAM_SEND_TIMEOUT" default:"10s"`
	BroadcastDelay  time.Duration `envconfig:"SHOP_TELEGRAM_BROADCAST_DELAY" default:"100ms"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
