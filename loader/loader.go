// Package loader reads bean declarations from a configuration file and
// registers matching definitions. Types are code-registered under a short
// key; the file decides which beans exist, how they are configured, and
// when they are built.
package loader

import (
	"reflect"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sohaha/zlsgo/zarray"
	"github.com/sohaha/zlsgo/zerror"
	"github.com/spf13/viper"
	gconf "github.com/zlsgo/conf"
	"github.com/zlsgo/ioc"
	"github.com/zlsgo/ioc/bean"
)

var (
	// fileName 默认配置文件名
	fileName = "beans"
	// EnvPrefix 环境变量前缀
	EnvPrefix = "IOC"
)

type Loader struct {
	cfg   *gconf.Confhub
	types *zarray.Maper[string, interface{}]
}

// beanDecl is one declaration under the beans key.
type beanDecl struct {
	Type       string                 `mapstructure:"type"`
	Scope      string                 `mapstructure:"scope"`
	Lazy       bool                   `mapstructure:"lazy"`
	Init       string                 `mapstructure:"init"`
	Destroy    string                 `mapstructure:"destroy"`
	Properties map[string]interface{} `mapstructure:"properties"`
}

func New(name string, opt ...func(o *gconf.Option)) *Loader {
	if name == "" {
		name = fileName
	}
	cfg := gconf.New(name, func(o *gconf.Option) {
		o.EnvPrefix = EnvPrefix
		o.AutoCreate = true
		for _, f := range opt {
			f(o)
		}
	})
	return &Loader{cfg: cfg, types: zarray.NewHashMap[string, interface{}]()}
}

// RegisterType makes target constructible from the file under key. target
// is a struct pointer or a provider function; declarations whose type
// matches key build from it.
func (l *Loader) RegisterType(key string, target interface{}) {
	l.types.Set(key, target)
}

// Core exposes the underlying viper instance.
func (l *Loader) Core() *viper.Viper {
	return l.cfg.Core
}

func (l *Loader) SetDefault(key string, value interface{}) {
	l.cfg.SetDefault(key, value)
}

// Load reads the file and registers every declared bean into c.
func (l *Loader) Load(c *ioc.Container) error {
	if err := l.cfg.Read(); err != nil {
		return zerror.With(err, "definition file unreadable")
	}
	return l.Apply(c)
}

// Apply registers the currently loaded declarations into c without
// re-reading the file. Names register in sorted order to keep boot
// deterministic.
func (l *Loader) Apply(c *ioc.Container) error {
	var decls map[string]beanDecl
	if err := l.cfg.Core.UnmarshalKey("beans", &decls); err != nil {
		return zerror.With(err, "definition file invalid")
	}

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d, err := l.build(name, decls[name])
		if err != nil {
			return err
		}
		if err := c.Register(name, d); err != nil {
			return zerror.With(err, "declaration '"+name+"' rejected")
		}
	}
	return nil
}

// Watch re-applies the file into c on every change. The container must
// allow overriding for replacement to land; onErr receives reload
// failures, defaulting to a warning on the container log.
func (l *Loader) Watch(c *ioc.Container, onErr ...func(error)) {
	core := l.cfg.Core
	core.WatchConfig()
	core.OnConfigChange(func(e fsnotify.Event) {
		if err := l.Apply(c); err != nil {
			if len(onErr) > 0 {
				for _, f := range onErr {
					f(err)
				}
				return
			}
			c.Log().Warn("definition reload failed:", err)
		}
	})
}

func (l *Loader) build(name string, decl beanDecl) (*bean.Definition, error) {
	key := decl.Type
	if key == "" {
		key = name
	}
	target, ok := l.types.Get(key)
	if !ok {
		return nil, zerror.New(bean.ErrInvalidDefinition, "declaration '"+name+"' uses unregistered type '"+key+"'")
	}

	opt := func(d *bean.Definition) {
		if strings.EqualFold(decl.Scope, "prototype") {
			d.Scope = bean.Prototype
		}
		d.Lazy = decl.Lazy
		d.InitMethod = decl.Init
		d.DestroyMethod = decl.Destroy

		props := make([]string, 0, len(decl.Properties))
		for k := range decl.Properties {
			props = append(props, k)
		}
		sort.Strings(props)
		for _, k := range props {
			d.Properties = append(d.Properties, bean.Property{Name: k, Value: refValue(decl.Properties[k])})
		}
	}

	if reflect.TypeOf(target).Kind() == reflect.Func {
		return bean.Provide(target, opt), nil
	}
	return bean.New(target, opt), nil
}

// refValue turns "@name" strings into bean references; "@@" escapes a
// literal leading at sign.
func refValue(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "@") {
		return v
	}
	if strings.HasPrefix(s, "@@") {
		return s[1:]
	}
	return bean.Ref(s[1:])
}
