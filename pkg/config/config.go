package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	SMS      SMSConfig
	LLM      LLMConfig
	Alerts   AlertsConfig
	Dispatch DispatchConfig
	Realtime RealtimeConfig
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
	Env          string `envconfig:"MEDITRACK_APP_ENV" default:"development"`
	Port         string `envconfig:"MEDITRACK_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"MEDITRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDITRACK_LOG_WARN_STACK" default:"false"`
	FrontendURL  string `envconfig:"MEDITRACK_FRONTEND_URL" default:"http://localhost:5173"`
	AutoMigrate  bool   `envconfig:"MEDITRACK_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, AppEnvDevelopment)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, AppEnvProduction)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDITRACK_DB_DSN"`
	Driver string `envconfig:"MEDITRACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDITRACK_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDITRACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDITRACK_DB_USER"`
	LegacyPassword string `envconfig:"MEDITRACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDITRACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDITRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDITRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDITRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDITRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDITRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// QueryTimeout bounds every store call made on behalf of a request.
	QueryTimeout       time.Duration `envconfig:"MEDITRACK_DB_TIMEOUT" default:"5s"`
	// SlowQueryThreshold logs statements at or above it; zero disables.
	SlowQueryThreshold time.Duration `envconfig:"MEDITRACK_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDITRACK_REDIS_URL"`
	Address      string        `envconfig:"MEDITRACK_REDIS_ADDR"`
	Password     string        `envconfig:"MEDITRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDITRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDITRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDITRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDITRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDITRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDITRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// AuthConfig holds the identity provider's token verification settings.
type AuthConfig struct {
	JWTSecret string `envconfig:"MEDITRACK_AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"MEDITRACK_AUTH_ISSUER"`
	Audience  string `envconfig:"MEDITRACK_AUTH_AUDIENCE" default:"authenticated"`
}

type SMSConfig struct {
	AccountSID          string        `envconfig:"MEDITRACK_SMS_ACCOUNT_SID"`
	AuthToken           string        `envconfig:"MEDITRACK_SMS_AUTH_TOKEN"`
	FromNumber          string        `envconfig:"MEDITRACK_SMS_FROM_NUMBER"`
	DistrictOfficePhone string        `envconfig:"MEDITRACK_SMS_DISTRICT_OFFICER_PHONE"`
	BaseURL             string        `envconfig:"MEDITRACK_SMS_BASE_URL" default:"https://api.twilio.com"`
	Timeout             time.Duration `envconfig:"MEDITRACK_SMS_TIMEOUT" default:"10s"`
	QueueSize           int           `envconfig:"MEDITRACK_SMS_QUEUE_SIZE" default:"64"`
	Workers             int           `envconfig:"MEDITRACK_SMS_WORKERS" default:"2"`
}

// Configured mirrors the credential sanity check applied before enabling SMS.
func (s SMSConfig) Configured() bool {
	return strings.HasPrefix(s.AccountSID, "AC") && len(s.AuthToken) > 10 && s.FromNumber != ""
}

type LLMConfig struct {
	APIKey    string        `envconfig:"MEDITRACK_LLM_API_KEY"`
	Model     string        `envconfig:"MEDITRACK_LLM_MODEL" default:"claude-sonnet-4-20250514"`
	BaseURL   string        `envconfig:"MEDITRACK_LLM_BASE_URL" default:"https://api.anthropic.com"`
	MaxTokens int           `envconfig:"MEDITRACK_LLM_MAX_TOKENS" default:"1024"`
	Timeout   time.Duration `envconfig:"MEDITRACK_LLM_TIMEOUT" default:"30s"`
}

// Configured reports whether a usable API key is present.
func (l LLMConfig) Configured() bool {
	return len(strings.TrimSpace(l.APIKey)) > 10
}

type AlertsConfig struct {
	ICUCritical int  `envconfig:"MEDITRACK_ALERTS_ICU_CRITICAL" default:"2"`
	ICUHigh     int  `envconfig:"MEDITRACK_ALERTS_ICU_HIGH" default:"5"`
	BloodHigh   int  `envconfig:"MEDITRACK_ALERTS_BLOOD_HIGH" default:"3"`
	Dedupe      bool `envconfig:"MEDITRACK_ALERTS_DEDUPE" default:"false"`
}

type DispatchConfig struct {
	AverageSpeedKmh float64 `envconfig:"MEDITRACK_DISPATCH_AVG_SPEED_KMH" default:"40"`
	ResultLimit     int     `envconfig:"MEDITRACK_DISPATCH_RESULT_LIMIT" default:"5"`
}

type RealtimeConfig struct {
	SendBuffer   int           `envconfig:"MEDITRACK_REALTIME_SEND_BUFFER" default:"256"`
	WriteWait    time.Duration `envconfig:"MEDITRACK_REALTIME_WRITE_WAIT" default:"10s"`
	PongWait     time.Duration `envconfig:"MEDITRACK_REALTIME_PONG_WAIT" default:"60s"`
	RelayEnabled bool          `envconfig:"MEDITRACK_REALTIME_RELAY" default:"false"`
	Channel      string        `envconfig:"MEDITRACK_REALTIME_CHANNEL" default:"events"`
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
