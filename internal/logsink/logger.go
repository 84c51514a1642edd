package logsink

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap.Logger configured for development or production and
// wraps its core with hub so registered listeners see every entry.
func NewLogger(development bool, hub *Hub) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"

	var opts []zap.Option
	if hub != nil {
		opts = append(opts, zap.WrapCore(hub.Wrap))
	}
	logger, err := cfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
