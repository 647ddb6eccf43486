// Package config loads captcha-calc settings from the environment.
//
// Every key can be set through an environment variable with the
// CAPTCHA_CALC_ prefix, dots replaced by underscores:
//
//	CAPTCHA_CALC_LOG_LEVEL=debug
//	CAPTCHA_CALC_OCR_LANGUAGE=eng
//	CAPTCHA_CALC_PREPROCESS_THRESHOLD=150
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "CAPTCHA_CALC"

// Config holds all runtime settings.
type Config struct {
	LogLevel   string
	OCR        OCRConfig
	Preprocess PreprocessConfig
}

// OCRConfig holds Tesseract settings.
type OCRConfig struct {
	Language string
	Tessdata string
	// MaxChars truncates the recognized text before cleaning; 0 keeps all.
	MaxChars int
}

// PreprocessConfig holds image normalization settings.
type PreprocessConfig struct {
	Enabled       bool
	Threshold     int
	MinHeight     int
	DenoiseRadius float64
}

// defaults maps every key to its default value.
var defaults = map[string]interface{}{
	"log_level":                 "info",
	"ocr.language":              "eng",
	"ocr.tessdata":              "",
	"ocr.max_chars":             0,
	"preprocess.enabled":        true,
	"preprocess.threshold":      160,
	"preprocess.min_height":     64,
	"preprocess.denoise_radius": 1.0,
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		OCR: OCRConfig{
			Language: v.GetString("ocr.language"),
			Tessdata: v.GetString("ocr.tessdata"),
			MaxChars: v.GetInt("ocr.max_chars"),
		},
		Preprocess: PreprocessConfig{
			Enabled:       v.GetBool("preprocess.enabled"),
			Threshold:     v.GetInt("preprocess.threshold"),
			MinHeight:     v.GetInt("preprocess.min_height"),
			DenoiseRadius: v.GetFloat64("preprocess.denoise_radius"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.OCR.Language == "" {
		return fmt.Errorf("ocr language must not be empty")
	}
	if c.OCR.MaxChars < 0 {
		return fmt.Errorf("ocr max chars must be >= 0, got %d", c.OCR.MaxChars)
	}
	if c.Preprocess.Threshold < 0 || c.Preprocess.Threshold > 255 {
		return fmt.Errorf("preprocess threshold must be 0-255, got %d", c.Preprocess.Threshold)
	}
	if c.Preprocess.MinHeight < 0 {
		return fmt.Errorf("preprocess min height must be >= 0, got %d", c.Preprocess.MinHeight)
	}
	if c.Preprocess.DenoiseRadius < 0 {
		return fmt.Errorf("preprocess denoise radius must be >= 0, got %g", c.Preprocess.DenoiseRadius)
	}
	return nil
}

// NewLogger returns a logrus logger writing text records at the configured
// level. The caller chooses the output.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
