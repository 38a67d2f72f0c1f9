package logger

import (
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap/zapcore"
)

// rollbarCore 将达到阈值的日志条目转发至 Rollbar
type rollbarCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
	send   func(level string, err error, msg string, extras map[string]interface{})
}

func newRollbarCore(min zapcore.Level) *rollbarCore {
	return &rollbarCore{LevelEnabler: min, send: sendToRollbar}
}

func sendToRollbar(level string, err error, msg string, extras map[string]interface{}) {
	if err != nil {
		extras["message"] = msg
		rollbar.ErrorWithExtras(level, err, extras)
		return
	}
	rollbar.MessageWithExtras(level, msg, extras)
}

func (c *rollbarCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *rollbarCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *rollbarCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	var cause error
	for _, f := range append(append([]zapcore.Field{}, c.fields...), fields...) {
		if f.Type == zapcore.ErrorType && cause == nil {
			if e, ok := f.Interface.(error); ok {
				cause = e
			}
		}
		f.AddTo(enc)
	}
	enc.Fields["caller"] = ent.Caller.TrimmedPath()

	c.send(rollbarLevel(ent.Level), cause, ent.Message, enc.Fields)
	return nil
}

func (c *rollbarCore) Sync() error {
	rollbar.Wait()
	return nil
}

func rollbarLevel(l zapcore.Level) string {
	switch {
	case l >= zapcore.DPanicLevel:
		return rollbar.CRIT
	case l >= zapcore.ErrorLevel:
		return rollbar.ERR
	case l == zapcore.WarnLevel:
		return rollbar.WARN
	default:
		return rollbar.INFO
	}
}
