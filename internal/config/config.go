package config

import (
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/stocklens/backend-go/internal/process"
	"github.com/stocklens/backend-go/internal/validate"
	"github.com/stocklens/backend-go/pkg/logger"
)

type Config struct {
	App        AppConfig
	Validation ValidationConfig
	Product    ProductConfig
}

type AppConfig struct {
	LogLevel string
}

type ValidationConfig struct {
	SampleSize  int
	MaxErrors   int
	PreviewSize int
}

type ProductConfig struct {
	DefaultLeadTimeDays   float64
	SafetyStockMultiplier float64
	MaxCoverDays          float64
	AnnualCarryingRate    float64
	LeadTimeByGroup       map[string]float64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("VALIDATION_SAMPLE_SIZE", 100)
		viper.SetDefault("VALIDATION_MAX_ERRORS", 50)
		viper.SetDefault("VALIDATION_PREVIEW_SIZE", 5)
		viper.SetDefault("PRODUCT_DEFAULT_LEAD_TIME_DAYS", 7.0)
		viper.SetDefault("PRODUCT_SAFETY_STOCK_MULTIPLIER", 1.5)
		viper.SetDefault("PRODUCT_MAX_COVER_DAYS", 90.0)
		viper.SetDefault("PRODUCT_ANNUAL_CARRYING_RATE", 0.25)
		viper.SetDefault("PRODUCT_LEAD_TIME_BY_GROUP", "")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			App: AppConfig{
				LogLevel: viper.GetString("LOG_LEVEL"),
			},
			Validation: ValidationConfig{
				SampleSize:  viper.GetInt("VALIDATION_SAMPLE_SIZE"),
				MaxErrors:   viper.GetInt("VALIDATION_MAX_ERRORS"),
				PreviewSize: viper.GetInt("VALIDATION_PREVIEW_SIZE"),
			},
			Product: ProductConfig{
				DefaultLeadTimeDays:   viper.GetFloat64("PRODUCT_DEFAULT_LEAD_TIME_DAYS"),
				SafetyStockMultiplier: viper.GetFloat64("PRODUCT_SAFETY_STOCK_MULTIPLIER"),
				MaxCoverDays:          viper.GetFloat64("PRODUCT_MAX_COVER_DAYS"),
				AnnualCarryingRate:    viper.GetFloat64("PRODUCT_ANNUAL_CARRYING_RATE"),
				LeadTimeByGroup:       parseLeadTimes(viper.GetString("PRODUCT_LEAD_TIME_BY_GROUP")),
			},
		}
	})

	return instance
}

// ValidationOptions maps the loaded config onto the validator's options.
func (c *Config) ValidationOptions() validate.Options {
	return validate.Options{
		SampleSize:  c.Validation.SampleSize,
		MaxErrors:   c.Validation.MaxErrors,
		PreviewSize: c.Validation.PreviewSize,
	}
}

// ProductOptions maps the loaded config onto the product derivation config.
func (c *Config) ProductOptions() process.ProductConfig {
	return process.ProductConfig{
		LeadTimeByGroup:       c.Product.LeadTimeByGroup,
		DefaultLeadTimeDays:   c.Product.DefaultLeadTimeDays,
		SafetyStockMultiplier: c.Product.SafetyStockMultiplier,
		MaxCoverDays:          c.Product.MaxCoverDays,
		AnnualCarryingRate:    c.Product.AnnualCarryingRate,
	}
}

// parseLeadTimes reads "GROUP:days,GROUP:days" pairs; malformed pairs are
// logged and dropped.
func parseLeadTimes(raw string) map[string]float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			logger.Log.Warn().Str("pair", pair).Msg("ignoring malformed lead time override")
			continue
		}
		days, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || days <= 0 {
			logger.Log.Warn().Str("pair", pair).Msg("ignoring malformed lead time override")
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(name))] = days
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
