package utils

import (
	"log"
	"os"
)

// LoggerConfig configures InitLogger. Zero value logs to stdout.
type LoggerConfig struct {
	Output *os.File
}

// InitLogger builds the process logger used by main and the request
// middleware.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	return log.New(cfg.Output, "[MundoKids] ", log.LstdFlags|log.LUTC)
}
