package swtmiddleware

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// NewLogrusLogger adapts a logrus logger to Logger. Key/value pairs become
// logrus fields.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLogger{l: l}
}

type logrusLogger struct{ l logrus.FieldLogger }

func (a *logrusLogger) Debug(msg string, args ...any) { a.with(args).Debug(msg) }
func (a *logrusLogger) Info(msg string, args ...any)  { a.with(args).Info(msg) }
func (a *logrusLogger) Warn(msg string, args ...any)  { a.with(args).Warn(msg) }
func (a *logrusLogger) Error(msg string, args ...any) { a.with(args).Error(msg) }

func (a *logrusLogger) with(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return a.l
	}
	return a.l.WithFields(fields(args))
}

// fields pairs up slog-style arguments. A trailing key without a value is
// kept under "!BADKEY", as slog does.
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}

// NewZapLogger adapts a zap logger to Logger.
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{l: l.Sugar()}
}

type zapLogger struct{ l *zap.SugaredLogger }

func (a *zapLogger) Debug(msg string, args ...any) { a.l.Debugw(msg, args...) }
func (a *zapLogger) Info(msg string, args ...any)  { a.l.Infow(msg, args...) }
func (a *zapLogger) Warn(msg string, args ...any)  { a.l.Warnw(msg, args...) }
func (a *zapLogger) Error(msg string, args ...any) { a.l.Errorw(msg, args...) }

// NewZerologLogger adapts a zerolog logger to Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{l: l}
}

type zerologLogger struct{ l zerolog.Logger }

func (a *zerologLogger) Debug(msg string, args ...any) { a.log(a.l.Debug(), msg, args) }
func (a *zerologLogger) Info(msg string, args ...any)  { a.log(a.l.Info(), msg, args) }
func (a *zerologLogger) Warn(msg string, args ...any)  { a.log(a.l.Warn(), msg, args) }
func (a *zerologLogger) Error(msg string, args ...any) { a.log(a.l.Error(), msg, args) }

func (a *zerologLogger) log(e *zerolog.Event, msg string, args []any) {
	if len(args) > 0 {
		e = e.Fields(map[string]any(fields(args)))
	}
	e.Msg(msg)
}
