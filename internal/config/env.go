package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string
	AppEnv      string
	DatabaseURL string
	SslCertPath string
	JWTSecret   string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	TemplateSource string // builtin | dir | s3
	TemplateDir    string
	TemplatePrefix string
	SofficePath    string

	LLMProvider   string // gemini | openai
	AIAPIKey      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	EmbedModel    string
	EmbedDim      int
	GenModel      string

	StripeSecretKey      string
	StripePublishableKey string
	ProductPrice         decimal.Decimal
	ProductCurrency      string
	RequirePayment       bool

	ChatMaxMessages int
	AllowedOrigins  []string
	WebDir          string
	KnowledgeDir    string
	IngestWorkers   int
	AdminEmails     []string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "production"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://uncouple.db"),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "uncouple-forms"),

		TemplateSource: getEnv("TEMPLATE_SOURCE", "builtin"),
		TemplateDir:    getEnv("TEMPLATE_DIR", "templates"),
		TemplatePrefix: getEnv("TEMPLATE_PREFIX", "templates/"),
		SofficePath:    getEnv("SOFFICE_PATH", "soffice"),

		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:      getEnvInt("EMBED_DIM", 768),
		GenModel:      getEnv("GEN_MODEL", "gemini-1.5-flash"),

		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		ProductPrice:         getEnvDecimal("PRODUCT_PRICE", decimal.NewFromInt(99)),
		ProductCurrency:      strings.ToLower(getEnv("PRODUCT_CURRENCY", "usd")),
		RequirePayment:       getEnvBool("REQUIRE_PAYMENT", false),

		ChatMaxMessages: getEnvInt("CHAT_MAX_MESSAGES", 20),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		WebDir:          getEnv("WEB_DIR", ""),
		KnowledgeDir:    getEnv("KNOWLEDGE_DIR", "data/knowledge"),
		IngestWorkers:   getEnvInt("INGEST_WORKERS", 2),
		AdminEmails:     getEnvList("ADMIN_EMAILS", nil),
	}

	if cfg.JWTSecret == "" {
		log.Printf("WARN: JWT_SECRET not set, authentication endpoints will refuse requests")
	}
	if cfg.ChatMaxMessages < 2 {
		log.Printf("WARN: CHAT_MAX_MESSAGES=%d too small, using 20", cfg.ChatMaxMessages)
		cfg.ChatMaxMessages = 20
	}
	if cfg.IngestWorkers < 1 {
		cfg.IngestWorkers = 1
	}

	return cfg
}

// IsDevelopment reports whether APP_ENV is "development".
func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.AppEnv, "development") }

// PaymentConfigured reports whether a Stripe secret key is present.
func (c *Config) PaymentConfigured() bool { return c.StripeSecretKey != "" }

// AIConfigured reports whether the selected model provider has a key.
func (c *Config) AIConfigured() bool {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey != ""
	}
	return c.AIAPIKey != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a bool, using default %t", key, v, def)
		return def
	}
	return b
}

func getEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		log.Printf("WARN: %s=%q not a valid amount, using default %s", key, v, def.StringFixed(2))
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
