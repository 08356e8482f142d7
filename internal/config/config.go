package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Reports ReportsConfig `yaml:"reports" mapstructure:"reports"`
	Explain ExplainConfig `yaml:"explain" mapstructure:"explain"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the two model artifacts and names the key columns.
type DataConfig struct {
	Features       FeaturesConfig `yaml:"features" mapstructure:"features"`
	SHAP           SHAPConfig     `yaml:"shap" mapstructure:"shap"`
	IDColumn       string         `yaml:"id_column" mapstructure:"id_column"`
	LabelColumn    string         `yaml:"label_column" mapstructure:"label_column"`
	ClaimsColumn   string         `yaml:"claims_column" mapstructure:"claims_column"`
	Correspondence string         `yaml:"correspondence" mapstructure:"correspondence"`
}

// FeaturesConfig configures the Feature Table source.
type FeaturesConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	Format      string `yaml:"format" mapstructure:"format"`
	Table       string `yaml:"table" mapstructure:"table"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	OrderBy     string `yaml:"order_by" mapstructure:"order_by"`
}

// SHAPConfig configures the Explainability Array file.
type SHAPConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"`
	// Header is auto, true or false. Only CSV files have one.
	Header string `yaml:"header" mapstructure:"header"`
}

// ReportsConfig locates the pre-rendered plot images.
type ReportsConfig struct {
	Dir             string `yaml:"dir" mapstructure:"dir"`
	WaterfallPrefix string `yaml:"waterfall_prefix" mapstructure:"waterfall_prefix"`
	WaterfallSuffix string `yaml:"waterfall_suffix" mapstructure:"waterfall_suffix"`
	Manifest        string `yaml:"manifest" mapstructure:"manifest"`
	About           string `yaml:"about" mapstructure:"about"`
}

// ExplainConfig tunes the Model Explainability view.
type ExplainConfig struct {
	TopFeatures int `yaml:"top_features" mapstructure:"top_features"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	PageSize    int      `yaml:"page_size" mapstructure:"page_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Correspondence modes for the Feature Table / Explainability Array pair.
const (
	CorrespondenceStrict = "strict"
	CorrespondenceWarn   = "warn"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FRAUDDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.features.path", "data/provider_features.csv")
	v.SetDefault("data.features.format", "")
	v.SetDefault("data.features.table", "provider_features")
	v.SetDefault("data.features.sheet", "")
	v.SetDefault("data.features.database_url", "")
	v.SetDefault("data.features.order_by", "")
	v.SetDefault("data.shap.path", "data/shap_values.npy")
	v.SetDefault("data.shap.format", "")
	v.SetDefault("data.shap.header", "auto")
	v.SetDefault("data.id_column", "Provider")
	v.SetDefault("data.label_column", "PotentialFraud")
	v.SetDefault("data.claims_column", "total_claims")
	v.SetDefault("data.correspondence", CorrespondenceStrict)
	v.SetDefault("reports.dir", "reports")
	v.SetDefault("reports.waterfall_prefix", "shap_waterfall_full_")
	v.SetDefault("reports.waterfall_suffix", ".png")
	v.SetDefault("reports.manifest", "")
	v.SetDefault("reports.about", "")
	v.SetDefault("explain.top_features", 10)
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.page_size", 50)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a loader.
func (c *Config) Validate() error {
	var problems []string

	switch c.Data.Features.Format {
	case "", "csv", "xlsx", "sqlite", "postgres":
	default:
		problems = append(problems, "data.features.format must be csv, xlsx, sqlite or postgres")
	}
	if c.Data.Features.Path == "" && c.Data.Features.DatabaseURL == "" {
		problems = append(problems, "data.features.path or data.features.database_url is required")
	}
	switch c.Data.SHAP.Format {
	case "", "npy", "csv":
	default:
		problems = append(problems, "data.shap.format must be npy or csv")
	}
	switch strings.ToLower(c.Data.SHAP.Header) {
	case "", "auto", "true", "false", "1", "0", "yes", "no":
	default:
		problems = append(problems, "data.shap.header must be auto, true or false")
	}
	if c.Data.SHAP.Path == "" {
		problems = append(problems, "data.shap.path is required")
	}
	if c.Data.IDColumn == "" || c.Data.LabelColumn == "" || c.Data.ClaimsColumn == "" {
		problems = append(problems, "data.id_column, data.label_column and data.claims_column are required")
	}
	switch c.Data.Correspondence {
	case CorrespondenceStrict, CorrespondenceWarn:
	default:
		problems = append(problems, "data.correspondence must be strict or warn")
	}
	if c.Server.PageSize <= 0 {
		problems = append(problems, "server.page_size must be positive")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		problems = append(problems, "server.rate_limit and server.rate_burst must not be negative")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
