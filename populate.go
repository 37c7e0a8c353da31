package ioc

import (
	"reflect"
	"strings"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/sohaha/zlsgo/zreflect"
	"github.com/zlsgo/ioc/bean"
)

// ValueResolver expands expression strings recorded as property or argument
// values, typically ${key} placeholders against a configuration source.
type ValueResolver interface {
	Resolve(expr string) (interface{}, error)
}

// populate applies the definition's recorded properties onto a freshly
// built instance. References become nested creations on the same chain,
// placeholder strings go through the resolver, everything else through the
// converter. The first failure aborts the creation.
func (cc *Creation) populate(name string, instance interface{}, d *bean.Definition) error {
	if len(d.Properties) == 0 {
		return nil
	}
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return zerror.New(bean.ErrPopulation, "'"+name+"' is not a struct pointer, properties cannot be set")
	}
	e := v.Elem()
	for _, p := range d.Properties {
		// exact match first; configuration sources lowercase their keys,
		// so fall back to a case-insensitive lookup
		fieldName := p.Name
		f := e.FieldByName(fieldName)
		if !f.IsValid() {
			if sf, ok := e.Type().FieldByNameFunc(func(n string) bool {
				return strings.EqualFold(n, p.Name)
			}); ok {
				fieldName = sf.Name
				f = e.FieldByName(fieldName)
			}
		}
		if !f.IsValid() {
			return zerror.New(bean.ErrPopulation, "'"+name+"' has no field "+p.Name)
		}
		val, err := cc.resolveValue(p.Value)
		if err != nil {
			return zerror.Wrap(err, bean.ErrPopulation, "property "+p.Name+" of '"+name+"'")
		}
		if val == nil {
			continue
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(f.Type()) {
			converted, err := cc.c.converter.Convert(val, f.Type())
			if err != nil {
				return zerror.Wrap(err, bean.ErrPopulation, "property "+p.Name+" of '"+name+"'")
			}
			val = converted
			rv = reflect.ValueOf(converted)
		}
		if f.CanSet() {
			f.Set(rv)
			continue
		}
		if err := zreflect.SetUnexportedField(v, fieldName, val); err != nil {
			return zerror.Wrap(err, bean.ErrPopulation, "property "+p.Name+" of '"+name+"'")
		}
	}
	return nil
}

// resolveValue turns a recorded value into the value to assign: bean
// references resolve through the current chain, placeholder strings through
// the resolver when one is configured.
func (cc *Creation) resolveValue(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case bean.Ref:
		out, err := cc.get(string(t))
		if err != nil {
			return nil, err
		}
		if isNull(out) {
			return nil, nil
		}
		return out, nil
	case string:
		if r := cc.c.resolver; r != nil && strings.Contains(t, "${") {
			return r.Resolve(t)
		}
	}
	return v, nil
}
