package zerolog

import (
	"fmt"

	"github.com/raykavin/tutor/pkg/logger"
	"github.com/rs/zerolog"
)

var (
	toZerolog = map[logger.Level]zerolog.Level{
		logger.Disabled:   zerolog.Disabled,
		logger.NoLevel:    zerolog.NoLevel,
		logger.TraceLevel: zerolog.TraceLevel,
		logger.DebugLevel: zerolog.DebugLevel,
		logger.InfoLevel:  zerolog.InfoLevel,
		logger.WarnLevel:  zerolog.WarnLevel,
		logger.ErrorLevel: zerolog.ErrorLevel,
		logger.FatalLevel: zerolog.FatalLevel,
		logger.PanicLevel: zerolog.PanicLevel,
	}
	fromZerolog = make(map[zerolog.Level]logger.Level, len(toZerolog))
)

func init() {
	for level, zl := range toZerolog {
		fromZerolog[zl] = level
	}
}

// ZerologAdapter implements logger.Logger on top of a zerolog.Logger.
// Every method logs directly on the zerolog event so that the configured
// caller skip count points at the code calling the adapter.
type ZerologAdapter struct {
	log zerolog.Logger
}

// NewAdapter wraps log
func NewAdapter(log zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{log: log}
}

func (z *ZerologAdapter) derive(log zerolog.Logger) logger.Logger {
	return &ZerologAdapter{log: log}
}

// GetLevel implements logger.Logger
func (z *ZerologAdapter) GetLevel() logger.Level {
	if level, ok := fromZerolog[z.log.GetLevel()]; ok {
		return level
	}
	return logger.NoLevel
}

// SetLevel implements logger.Logger. Loggers derived before the call keep
// their previous level.
func (z *ZerologAdapter) SetLevel(level logger.Level) {
	zl, ok := toZerolog[level]
	if !ok {
		zl = zerolog.NoLevel
	}
	z.log = z.log.Level(zl)
}

func (z *ZerologAdapter) WithError(err error) logger.Logger {
	return z.derive(z.log.With().Err(err).Logger())
}

func (z *ZerologAdapter) WithField(key string, value any) logger.Logger {
	return z.derive(z.log.With().Interface(key, value).Logger())
}

func (z *ZerologAdapter) WithFields(fields map[string]any) logger.Logger {
	return z.derive(z.log.With().Fields(fields).Logger())
}

func (z *ZerologAdapter) Print(args ...any) { z.log.Print(args...) }
func (z *ZerologAdapter) Trace(args ...any) { z.log.Trace().Msg(fmt.Sprint(args...)) }
func (z *ZerologAdapter) Debug(args ...any) { z.log.Debug().Msg(fmt.Sprint(args...)) }
func (z *ZerologAdapter) Info(args ...any)  { z.log.Info().Msg(fmt.Sprint(args...)) }
func (z *ZerologAdapter) Warn(args ...any)  { z.log.Warn().Msg(fmt.Sprint(args...)) }
func (z *ZerologAdapter) Error(args ...any) { z.log.Error().Msg(fmt.Sprint(args...)) }
func (z *ZerologAdapter) Fatal(args ...any) { z.log.Fatal().Msg(fmt.Sprint(args...)) }
func (z *ZerologAdapter) Panic(args ...any) { z.log.Panic().Msg(fmt.Sprint(args...)) }

func (z *ZerologAdapter) Printf(format string, args ...any) { z.log.Printf(format, args...) }
func (z *ZerologAdapter) Tracef(format string, args ...any) { z.log.Trace().Msgf(format, args...) }
func (z *ZerologAdapter) Debugf(format string, args ...any) { z.log.Debug().Msgf(format, args...) }
func (z *ZerologAdapter) Infof(format string, args ...any)  { z.log.Info().Msgf(format, args...) }
func (z *ZerologAdapter) Warnf(format string, args ...any)  { z.log.Warn().Msgf(format, args...) }
func (z *ZerologAdapter) Errorf(format string, args ...any) { z.log.Error().Msgf(format, args...) }
func (z *ZerologAdapter) Fatalf(format string, args ...any) { z.log.Fatal().Msgf(format, args...) }
func (z *ZerologAdapter) Panicf(format string, args ...any) { z.log.Panic().Msgf(format, args...) }
