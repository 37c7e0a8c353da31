package processors

import (
	"github.com/sohaha/zlsgo/zlog"
	"github.com/sohaha/zlsgo/zstring"
	"github.com/zlsgo/ioc"
	"github.com/zlsgo/ioc/bean"
)

// Logging dumps every lifecycle edge of every bean. It declares a
// precedence so it sees instances before unordered processors rewrite them.
type Logging struct {
	Log        *zlog.Logger
	Precedence int
}

var _ interface {
	ioc.InstantiationAware
	ioc.DestructionAware
	ioc.Ordered
} = &Logging{}

func (l *Logging) logger() *zlog.Logger {
	if l.Log != nil {
		return l.Log
	}
	return zlog.Log
}

func (l *Logging) print(tip string, v ...interface{}) {
	log := l.logger()
	d := []interface{}{
		log.ColorTextWrap(zlog.ColorLightCyan, zstring.Pad(tip, 6, " ", zstring.PadLeft)),
	}
	d = append(d, v...)
	log.Debug(d...)
}

func (l *Logging) Order() int { return l.Precedence }

func (l *Logging) BeforeInstantiation(name string, d *bean.Definition) (interface{}, error) {
	l.print("Build", name, d.String())
	return nil, nil
}

func (l *Logging) BeforeInit(instance interface{}, name string) (interface{}, error) {
	l.print("Init", name)
	return instance, nil
}

func (l *Logging) AfterInit(instance interface{}, name string) (interface{}, error) {
	l.print("Ready", name)
	return instance, nil
}

func (l *Logging) BeforeDestruction(instance interface{}, name string) error {
	l.print("Stop", name)
	return nil
}
