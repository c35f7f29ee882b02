// Package zerolog adapts a zerolog.Logger to flightcache.Logger.
package zerolog

import (
	"github.com/rs/zerolog"
	"github.com/unkn0wn-root/flightcache"
)

var _ flightcache.Logger = ZerologLogger{}

// ZerologLogger writes each call as one event; Fields become top-level keys.
type ZerologLogger struct{ L zerolog.Logger }

func New(l zerolog.Logger) ZerologLogger { return ZerologLogger{L: l} }

func (z ZerologLogger) Debug(msg string, f flightcache.Fields) { emit(z.L.Debug(), msg, f) }
func (z ZerologLogger) Info(msg string, f flightcache.Fields)  { emit(z.L.Info(), msg, f) }
func (z ZerologLogger) Warn(msg string, f flightcache.Fields)  { emit(z.L.Warn(), msg, f) }
func (z ZerologLogger) Error(msg string, f flightcache.Fields) { emit(z.L.Error(), msg, f) }

func emit(e *zerolog.Event, msg string, f flightcache.Fields) {
	if e == nil { // level disabled
		return
	}
	for k, v := range f {
		if err, ok := v.(error); ok {
			e = e.AnErr(k, err)
			continue
		}
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}
