package tutor

import (
	"os"
	"strconv"

	"github.com/raykavin/tutor/pkg/logger"
	"github.com/raykavin/tutor/pkg/logger/zerolog"
)

const (
	// Default configuration values
	defaultLogLevel      = "info"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultLogColored    = "true"
	defaultLogJSON       = "false"
)

// Environment variable names
const (
	envLogLevel      = "TUTOR_LOG_LEVEL"
	envLogTimeFormat = "TUTOR_LOG_TIME_FORMAT"
	envLogColor      = "TUTOR_LOG_COLOR"
	envLogJSON       = "TUTOR_LOG_JSON"
)

// DefaultLog is the process wide logger, configured from TUTOR_LOG_* variables
var DefaultLog logger.Logger

func init() {
	log, err := initLogger()
	if err != nil {
		panic(err)
	}

	DefaultLog = log
}

// initLogger creates a new logger instance configured from environment variables
func initLogger() (*zerolog.ZerologAdapter, error) {
	logLevel := getEnvWithDefault(envLogLevel, defaultLogLevel)
	logTimeFormat := getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat)

	logColored, err := parseBoolEnv(envLogColor, defaultLogColored)
	if err != nil {
		return nil, err
	}

	logJSON, err := parseBoolEnv(envLogJSON, defaultLogJSON)
	if err != nil {
		return nil, err
	}

	return zerolog.New(zerolog.Config{
		Level:      logLevel,
		TimeFormat: logTimeFormat,
		Colored:    logColored,
		JSON:       logJSON,
	})
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseBoolEnv gets a boolean environment variable with a default value
func parseBoolEnv(key, defaultValue string) (bool, error) {
	value := getEnvWithDefault(key, defaultValue)
	return strconv.ParseBool(value)
}
