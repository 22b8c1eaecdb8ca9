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
	JWT          JWTConfig
	GoogleMaps   GoogleMapsConfig
	Delivery     DeliveryConfig
	Cart         CartConfig
	Autocomplete AutocompleteConfig
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

// LoadSections fills only the given section structs. Dev tools use it to skip
// the database and JWT requirements of Load.
func LoadSections(sections ...any) error {
	for _, section := range sections {
		if err := envconfig.Process(EnvPrefix, section); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"KIATU_APP_ENV" required:"true"`
	Port         string `envconfig:"KIATU_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"KIATU_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIATU_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"KIATU_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN string `envconfig:"KIATU_DB_DSN"`

	LegacyHost     string `envconfig:"KIATU_DB_HOST"`
	LegacyPort     int    `envconfig:"KIATU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KIATU_DB_USER"`
	LegacyPassword string `envconfig:"KIATU_DB_PASSWORD"`
	LegacyName     string `envconfig:"KIATU_DB_NAME"`
	LegacySSLMode  string `envconfig:"KIATU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIATU_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIATU_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIATU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIATU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIATU_REDIS_URL"`
	Address      string        `envconfig:"KIATU_REDIS_ADDR"`
	Password     string        `envconfig:"KIATU_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIATU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIATU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIATU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIATU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIATU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIATU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KIATU_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KIATU_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KIATU_JWT_EXPIRATION_MINUTES" default:"60"`
}

type GoogleMapsConfig struct {
	APIKey         string `envconfig:"KIATU_GOOGLE_MAPS_API_KEY"`
	DefaultCountry string `envconfig:"KIATU_GOOGLE_MAPS_COUNTRY" default:"KE"`
	Language       string `envconfig:"KIATU_GOOGLE_MAPS_LANGUAGE" default:"en"`
}

// DeliveryConfig is the canonical delivery fee schedule, in whole shillings.
type DeliveryConfig struct {
	SameMetroFee   int64  `envconfig:"KIATU_DELIVERY_SAME_METRO_FEE" default:"200"`
	InterCityFee   int64  `envconfig:"KIATU_DELIVERY_INTER_CITY_FEE" default:"400"`
	DistantFee     int64  `envconfig:"KIATU_DELIVERY_DISTANT_FEE" default:"500"`
	CapitalMetro   string `envconfig:"KIATU_DELIVERY_CAPITAL_METRO" default:"nairobi"`
	MetroTablePath string `envconfig:"KIATU_DELIVERY_METRO_TABLE_PATH"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"KIATU_CART_TTL" default:"720h"`
}

type AutocompleteConfig struct {
	Debounce          time.Duration `envconfig:"KIATU_AUTOCOMPLETE_DEBOUNCE" default:"300ms"`
	RateLimitWindow   time.Duration `envconfig:"KIATU_AUTOCOMPLETE_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitRequests int           `envconfig:"KIATU_AUTOCOMPLETE_RATE_LIMIT_REQUESTS" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KIATU_AUTO_MIGRATE" default:"false"`
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
