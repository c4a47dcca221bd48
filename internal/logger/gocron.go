package logger

import (
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

// schedulerLogger forwards gocron's internal logs to slog. gocron is chatty
// at info level, so its info messages are demoted to debug.
type schedulerLogger struct {
	log *slog.Logger
}

// SchedulerLogger adapts log for use with gocron.WithLogger.
func SchedulerLogger(log *slog.Logger) gocron.Logger {
	if log == nil {
		log = slog.Default()
	}
	return &schedulerLogger{log: log.With("component", "gocron")}
}

func (l *schedulerLogger) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l *schedulerLogger) Info(msg string, args ...any)  { l.log.Debug(msg, args...) }
func (l *schedulerLogger) Warn(msg string, args ...any)  { l.log.Warn(msg, args...) }
func (l *schedulerLogger) Error(msg string, args ...any) { l.log.Error(msg, args...) }
