package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	// Set format based on configuration
	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	rid := c.Locals("ray_id")
	if str, ok := rid.(string); ok && str != "" {
		return l.With(zap.String("ray_id", str))
	}
	return l
}

// MaskEmail obfuscates an email address for safe logging.
// "test@example.com" becomes "te**@example.com".
func MaskEmail(addr string) string {
	if addr == "" {
		return "<empty>"
	}
	at := -1
	for i, r := range addr {
		if r == '@' {
			at = i
			break
		}
	}
	if at < 0 {
		if len(addr) <= 2 {
			return addr + "***"
		}
		return addr[:2] + "***"
	}
	user, domain := addr[:at], addr[at+1:]
	if len(user) <= 2 {
		return user + "***@" + domain
	}
	masked := user[:2]
	for range user[2:] {
		masked += "*"
	}
	return masked + "@" + domain
}
