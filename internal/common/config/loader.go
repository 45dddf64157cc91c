// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const developmentJWTSecret = "development-only-secret-change-me"

// bcrypt rejects passwords longer than this.
const maxBcryptPasswordBytes = 72

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it,
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	cfg, err := finish(v)
	if err != nil {
		return nil, err
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

// setViperDefaults holds defaults whose zero value is a valid setting, so they
// apply only when the key is absent.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("apis.genai.temperature", 0.8)
	v.SetDefault("apis.genai.max_retries", 2)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up towards the module root.
func loadEnvFile() string {
	candidates := []string{".env", "../.env", "../../.env", "../../../.env"}
	if root := findProjectRoot(); root != "" {
		candidates = append(candidates, filepath.Join(root, ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

func setIfEmpty(dst *string, envKeys ...string) {
	if *dst != "" {
		return
	}
	for _, k := range envKeys {
		if val := os.Getenv(k); val != "" {
			*dst = val
			return
		}
	}
}

// overrideEmptyConfig fills secrets the YAML left blank from well-known variables.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setIfEmpty(&cfg.Database.Postgres.URL, "DATABASE_URL")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDRESS")

	switch cfg.APIs.GenAI.Provider {
	case ProviderGemini:
		setIfEmpty(&cfg.APIs.GenAI.APIKey, "GEMINI_API_KEY", "GENAI_API_KEY")
	default:
		setIfEmpty(&cfg.APIs.GenAI.APIKey, "DEEPSEEK_API_KEY", "GENAI_API_KEY")
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "copywriter"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 90000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverMemory
	}
	if cfg.Database.ConnectRetries == 0 {
		cfg.Database.ConnectRetries = 3
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 24 * 7
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "token"
	}
	if cfg.Auth.MinPasswordLength == 0 {
		cfg.Auth.MinPasswordLength = 6
	}
	if cfg.Auth.MaxPasswordLength == 0 {
		cfg.Auth.MaxPasswordLength = maxBcryptPasswordBytes
	}
	if len(cfg.Auth.InvitationCodes) == 0 {
		cfg.Auth.InvitationCodes = []InvitationCode{
			{Code: "QZ202588", Role: "user"},
			{Code: "VIPQZ8888", Role: "admin"},
		}
	}
	if cfg.Auth.JWTSecret == "" && !cfg.App.IsProduction() {
		cfg.Auth.JWTSecret = developmentJWTSecret
	}

	g := &cfg.APIs.GenAI
	if g.Provider == "" {
		g.Provider = ProviderOpenAI
	}
	if g.BaseURL == "" && g.Provider == ProviderOpenAI {
		g.BaseURL = "https://api.deepseek.com"
	}
	if g.Model == "" {
		switch g.Provider {
		case ProviderGemini:
			g.Model = "gemini-2.5-flash-lite"
		default:
			g.Model = "deepseek-chat"
		}
	}
	if g.Timeout == 0 {
		g.Timeout = 60000
	}
	if g.MaxTokens == 0 {
		g.MaxTokens = 1000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Generation.DefaultStyle == "" {
		cfg.Generation.DefaultStyle = "Playful"
	}
	if cfg.Generation.MaxProductNameLength == 0 {
		cfg.Generation.MaxProductNameLength = 200
	}
	if cfg.Generation.MaxSellingPointLength == 0 {
		cfg.Generation.MaxSellingPointLength = 2000
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Database.Postgres.URL == "" && cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host or url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.Database.Driver)
	}

	switch cfg.APIs.GenAI.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("apis.genai.provider must be openai, gemini or none, got %q", cfg.APIs.GenAI.Provider)
	}

	if t := cfg.APIs.GenAI.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("apis.genai.temperature must be between 0 and 2, got %v", t)
	}
	if cfg.APIs.GenAI.MaxRetries < 0 {
		return fmt.Errorf("apis.genai.max_retries must not be negative, got %d", cfg.APIs.GenAI.MaxRetries)
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required in production")
	}

	if cfg.Auth.MaxPasswordLength > maxBcryptPasswordBytes {
		return fmt.Errorf("auth.max_password_length must be at most %d, got %d", maxBcryptPasswordBytes, cfg.Auth.MaxPasswordLength)
	}
	if cfg.Auth.MaxPasswordLength < cfg.Auth.MinPasswordLength {
		return fmt.Errorf("auth.max_password_length (%d) is below auth.min_password_length (%d)", cfg.Auth.MaxPasswordLength, cfg.Auth.MinPasswordLength)
	}

	for _, ic := range cfg.Auth.InvitationCodes {
		if ic.Code == "" {
			return fmt.Errorf("auth.invitation_codes entries need a code")
		}
		if ic.Role != "user" && ic.Role != "admin" {
			return fmt.Errorf("invitation code %s has unknown role %q", ic.Code, ic.Role)
		}
	}

	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig returns the workers.<name> entry. A missing entry yields fallback;
// zero numeric fields of a present entry are filled from fallback.
func GetWorkerConfig(cfg *Config, workerName string, fallback WorkerConfig) WorkerConfig {
	if cfg == nil {
		return fallback
	}
	worker, exists := cfg.Workers[workerName]
	if !exists {
		return fallback
	}
	if worker.MaxJobsActive <= 0 {
		worker.MaxJobsActive = fallback.MaxJobsActive
	}
	if worker.Timeout <= 0 {
		worker.Timeout = fallback.Timeout
	}
	if worker.MaxRetries <= 0 {
		worker.MaxRetries = fallback.MaxRetries
	}
	return worker
}

// TokenTTL is the session lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}
