// Package ioc drives named object definitions through construction,
// population, initialization and destruction. Definitions say how to build;
// the container decides when, detects circular construction, and tears
// everything down in reverse.
package ioc

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sohaha/zlsgo/zarray"
	"github.com/sohaha/zlsgo/zerror"
	"github.com/sohaha/zlsgo/zlog"
	"github.com/sohaha/zlsgo/zstring"
	"github.com/zlsgo/ioc/bean"
)

// ErrClosed is returned once Close has run.
var ErrClosed = errors.New("container is closed")

// Option configures a Container.
type Option struct {
	// AllowOverride lets later definitions replace earlier ones.
	AllowOverride bool
	// Aliases reserves names managed outside the registry.
	Aliases bean.AliasResolver
	// Strategy replaces the default reflective instantiation.
	Strategy InstantiationStrategy
	// Converter replaces the default ztype-backed property converter.
	Converter TypeConverter
	// Resolver expands ${...} strings in recorded values.
	Resolver ValueResolver
	// Logger overrides the container's own logger.
	Logger *zlog.Logger
	// Debug lowers the log level to dump every lifecycle step.
	Debug bool
}

// Container is the lifecycle orchestrator.
type Container struct {
	registry  *bean.Registry
	strategy  InstantiationStrategy
	converter TypeConverter
	resolver  ValueResolver
	log       *zlog.Logger

	procMu       sync.Mutex
	procs        []PostProcessor
	factoryProcs []FactoryPostProcessor

	createMu   sync.Mutex
	chainSeq   atomic.Uint64
	singletons *zarray.Maper[string, interface{}]
	inflight   *zarray.Maper[string, uint64]

	orderMu sync.Mutex
	order   []string

	processed atomic.Bool
	closed    atomic.Bool
}

func New(opt ...func(*Option)) *Container {
	o := Option{}
	for _, f := range opt {
		f(&o)
	}

	log := o.Logger
	if log == nil {
		log = zlog.New("[ioc] ")
		log.ResetFlags(zlog.BitLevel | zlog.BitTime)
		if o.Debug {
			log.SetLogLevel(zlog.LogDump)
		} else {
			log.SetLogLevel(zlog.LogSuccess)
		}
	}

	c := &Container{
		registry: bean.NewRegistry(func(ro *bean.Option) {
			ro.AllowOverride = o.AllowOverride
			ro.Aliases = o.Aliases
		}),
		strategy:   o.Strategy,
		converter:  o.Converter,
		resolver:   o.Resolver,
		log:        log,
		singletons: zarray.NewHashMap[string, interface{}](),
		inflight:   zarray.NewHashMap[string, uint64](),
	}
	if c.strategy == nil {
		c.strategy = &SimpleStrategy{}
	}
	if c.converter == nil {
		c.converter = ztypeConverter{}
	}
	return c
}

// Register adds a definition under name.
func (c *Container) Register(name string, d *bean.Definition) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.registry.Register(name, d)
}

// RegisterInstance installs an already built object as the singleton for
// name, bypassing definitions and callbacks; it is not tracked for
// destruction.
func (c *Container) RegisterInstance(name string, instance interface{}) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.registry.InUse(name) || c.singletons.Has(name) {
		return zerror.New(bean.ErrDuplicateDefinition, "bean '"+name+"' is already registered")
	}
	c.singletons.Set(name, instance)
	return nil
}

// Get returns the ready instance for name, creating it on first use.
// Singletons are identity-stable across calls; a factory that produced no
// object yields nil with no error.
func (c *Container) Get(name string) (interface{}, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	cc := &Creation{c: c, id: c.chainSeq.Add(1), seen: map[string]struct{}{}}
	return cc.Get(name)
}

// MustGet is Get for callers that treat absence as fatal.
func (c *Container) MustGet(name string) interface{} {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Container) Contains(name string) bool {
	return c.singletons.Has(name) || c.registry.Contains(name)
}

// Names returns registered definition names in registration order.
func (c *Container) Names() []string { return c.registry.Names() }

// Registry exposes the underlying definition registry.
func (c *Container) Registry() *bean.Registry { return c.registry }

// Log exposes the container logger.
func (c *Container) Log() *zlog.Logger { return c.log }

func (c *Container) track(name string) {
	c.orderMu.Lock()
	c.order = append(c.order, name)
	c.orderMu.Unlock()
}

func (c *Container) printLog(tip string, v ...interface{}) {
	d := []interface{}{
		c.log.ColorTextWrap(zlog.ColorLightMagenta, zstring.Pad(tip, 6, " ", zstring.PadLeft)),
	}
	d = append(d, v...)
	c.log.Debug(d...)
}
