package initializers

import (
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT,default=8080"`
	GinMode     string `env:"GIN_MODE,default=release"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
	FrontendURL string `env:"FRONTEND_URL,default=http://localhost:3000"`
	CORSOrigins string `env:"CORS_ORIGINS"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=720h"`

	DBDriver      string `env:"DB_DRIVER,default=mysql"`
	DBURL         string `env:"DB_URL"`
	StorageDriver string `env:"STORAGE_DRIVER,default=sql"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB,default=0"`
	CacheTTL      time.Duration `env:"CACHE_TTL,default=5m"`

	PricingFile string `env:"PRICING_FILE"`

	PaymobBaseURL       string        `env:"PAYMOB_BASE_URL,default=https://accept.paymob.com"`
	PaymobAPIKey        string        `env:"PAYMOB_API_KEY"`
	PaymobIntegrationID int           `env:"PAYMOB_INTEGRATION_ID,default=0"`
	PaymobIframeID      string        `env:"PAYMOB_IFRAME_ID"`
	PaymobHMACSecret    string        `env:"PAYMOB_HMAC_SECRET"`
	PaymobRetryCount    int           `env:"PAYMOB_RETRY_COUNT,default=3"`
	PaymobTimeout       time.Duration `env:"PAYMOB_TIMEOUT,default=30s"`

	FromEmail         string `env:"FROM_EMAIL"`
	FromEmailPassword string `env:"FROM_EMAIL_PASSWORD"`
	FromEmailSMTP     string `env:"FROM_EMAIL_SMTP"`
	SMTPAddress       string `env:"SMTP_ADDRESS"`

	S3Bucket string `env:"S3_BUCKET,default=mealplan-images"`
	S3Prefix string `env:"S3_PREFIX,default=meals"`

	ReferralCodes    string `env:"REFERRAL_CODES"`
	ReferralRequired bool   `env:"REFERRAL_REQUIRED,default=false"`

	AdminName     string `env:"ADMIN_NAME,default=Admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	ExpireSchedule string  `env:"EXPIRE_SCHEDULE,default=@every 15m"`
	AuthRateLimit  float64 `env:"AUTH_RATE_LIMIT,default=1"`
	AuthRateBurst  int     `env:"AUTH_RATE_BURST,default=5"`
}

// LoadConfig reads an optional .env file and decodes the environment.
func LoadConfig() (Config, error) {
	// A missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) ReferralCodeList() []string { return splitList(c.ReferralCodes) }

// AllowedOrigins defaults to the frontend when CORS_ORIGINS is empty.
func (c Config) AllowedOrigins() []string {
	if origins := splitList(c.CORSOrigins); len(origins) > 0 {
		return origins
	}
	return []string{c.FrontendURL}
}
