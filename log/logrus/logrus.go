// Package logrus adapts a *logrus.Entry to flightcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/flightcache"
)

var _ flightcache.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l with no preset fields.
func New(l *logrus.Logger) LogrusLogger { return LogrusLogger{E: logrus.NewEntry(l)} }

func (l LogrusLogger) Debug(msg string, f flightcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f flightcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f flightcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f flightcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
