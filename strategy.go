package ioc

import (
	"reflect"
	"strconv"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/zlsgo/ioc/bean"
)

// nullInstance marks a creation that legitimately produced no object. The
// name stays identity-stable in the singleton cache; callers see nil.
type nullInstance struct{}

func isNull(v interface{}) bool {
	_, ok := v.(nullInstance)
	return ok
}

var (
	errType      = reflect.TypeOf((*error)(nil)).Elem()
	creationType = reflect.TypeOf(&Creation{})
)

// InstantiationStrategy turns one definition into a raw, unconfigured
// instance. Implementations never run lifecycle callbacks; they may ask the
// creation context whether another name is mid-construction, but never
// instantiate recursively themselves.
type InstantiationStrategy interface {
	// Instantiate builds the zero value of a type definition.
	Instantiate(cc *Creation, d *bean.Definition, name string) (interface{}, error)
	// InstantiateProvider calls the definition's constructor function with
	// its resolved arguments.
	InstantiateProvider(cc *Creation, d *bean.Definition, name string) (interface{}, error)
	// InstantiateFactory invokes the definition's factory method on an
	// already resolved factory bean.
	InstantiateFactory(cc *Creation, d *bean.Definition, name string, factory interface{}) (interface{}, error)
}

// MethodInjector builds instances for definitions carrying method
// overrides, which need dynamically generated subtypes.
type MethodInjector interface {
	Instantiate(cc *Creation, d *bean.Definition, name string) (interface{}, error)
}

// SimpleStrategy is the default: plain reflective construction. Method
// overrides are delegated to Injector when one is installed.
type SimpleStrategy struct {
	Injector MethodInjector
}

func (s *SimpleStrategy) Instantiate(cc *Creation, d *bean.Definition, name string) (interface{}, error) {
	if d.Overrides {
		if s.Injector == nil {
			return nil, zerror.New(bean.ErrUnsupportedOperation, "method overrides on '"+name+"' need an injection capable strategy")
		}
		return s.Injector.Instantiate(cc, d, name)
	}
	target, err := d.ResolveTarget(func() (reflect.Value, error) {
		t := d.Type()
		if t == nil {
			return reflect.Value{}, zerror.New(bean.ErrInstantiation, "'"+name+"' has no target type")
		}
		if t.Kind() == reflect.Interface {
			return reflect.Value{}, zerror.New(bean.ErrInstantiation, "type "+t.String()+" is an interface, '"+name+"' cannot be instantiated")
		}
		return reflect.ValueOf(func() interface{} { return reflect.New(t).Interface() }), nil
	})
	if err != nil {
		return nil, err
	}
	return target.Call(nil)[0].Interface(), nil
}

func (s *SimpleStrategy) InstantiateProvider(cc *Creation, d *bean.Definition, name string) (interface{}, error) {
	target, err := d.ResolveTarget(func() (reflect.Value, error) {
		v := reflect.ValueOf(d.Provider())
		if !v.IsValid() || v.Kind() != reflect.Func {
			return reflect.Value{}, zerror.New(bean.ErrInstantiation, "provider of '"+name+"' is not a function")
		}
		t := v.Type()
		if t.NumOut() < 1 || t.NumOut() > 2 || (t.NumOut() == 2 && !t.Out(1).Implements(errType)) {
			return reflect.Value{}, zerror.New(bean.ErrInstantiation, "provider of '"+name+"' must return the instance and an optional error")
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	args, err := cc.buildArgs(target.Type(), d.Args, nil)
	if err != nil {
		return nil, zerror.Wrap(err, bean.ErrInstantiation, "provider arguments of '"+name+"'")
	}
	return call(target, args, name, "provider")
}

func (s *SimpleStrategy) InstantiateFactory(cc *Creation, d *bean.Definition, name string, factory interface{}) (interface{}, error) {
	target, err := d.ResolveTarget(func() (reflect.Value, error) {
		ft := reflect.TypeOf(factory)
		m, ok := ft.MethodByName(d.FactoryMethod())
		if !ok {
			return reflect.Value{}, zerror.New(bean.ErrInstantiation, "no method "+d.FactoryMethod()+" on "+ft.String())
		}
		return m.Func, nil
	})
	if err != nil {
		return nil, err
	}
	recv := reflect.ValueOf(factory)
	args, err := cc.buildArgs(target.Type(), d.Args, &recv)
	if err != nil {
		return nil, zerror.Wrap(err, bean.ErrInstantiation, "factory arguments of '"+name+"'")
	}

	prior := cc.invokedFactory
	cc.invokedFactory = d.FactoryName() + "." + d.FactoryMethod()
	defer func() { cc.invokedFactory = prior }()

	out, err := call(target, args, name, "factory method")
	if err != nil && cc.InCreation(d.FactoryName()) {
		err = zerror.With(err, "circular reference involving containing bean '"+d.FactoryName()+"', consider making the factory method independent of instance state")
	}
	return out, err
}

// call invokes fn containing panics, maps a trailing error return, and
// turns a nil result into the null instance.
func call(fn reflect.Value, args []reflect.Value, name, kind string) (interface{}, error) {
	var rets []reflect.Value
	err := zerror.TryCatch(func() error {
		rets = fn.Call(args)
		return nil
	})
	if err != nil {
		return nil, zerror.Wrap(err, bean.ErrInstantiation, kind+" for '"+name+"' panicked")
	}
	if n := len(rets); n > 0 && fn.Type().Out(n-1).Implements(errType) {
		if e, _ := rets[n-1].Interface().(error); e != nil {
			return nil, zerror.Wrap(e, bean.ErrInstantiation, kind+" for '"+name+"' failed")
		}
		rets = rets[:n-1]
	}
	if len(rets) == 0 {
		return nullInstance{}, nil
	}
	v := rets[0]
	if !v.IsValid() || isNilValue(v) {
		return nullInstance{}, nil
	}
	return v.Interface(), nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

// buildArgs adapts declared arguments to fn's signature. A leading *Creation
// parameter (after any receiver) receives the live chain, Ref arguments
// resolve through it, and mismatched values go through the converter.
func (cc *Creation) buildArgs(ft reflect.Type, declared []interface{}, recv *reflect.Value) ([]reflect.Value, error) {
	args := make([]reflect.Value, 0, ft.NumIn())
	i := 0
	if recv != nil {
		args = append(args, *recv)
		i++
	}
	if i < ft.NumIn() && ft.In(i) == creationType {
		args = append(args, reflect.ValueOf(cc))
		i++
	}
	want := ft.NumIn() - i
	if ft.IsVariadic() {
		if len(declared) < want-1 {
			return nil, zerror.New(bean.ErrInstantiation, "wants at least "+strconv.Itoa(want-1)+" arguments, got "+strconv.Itoa(len(declared)))
		}
	} else if len(declared) != want {
		return nil, zerror.New(bean.ErrInstantiation, "wants "+strconv.Itoa(want)+" arguments, got "+strconv.Itoa(len(declared)))
	}
	for n, raw := range declared {
		pt := paramType(ft, i+n)
		val, err := cc.resolveValue(raw)
		if err != nil {
			return nil, err
		}
		if val == nil {
			args = append(args, reflect.Zero(pt))
			continue
		}
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(pt) {
			conv, err := cc.c.converter.Convert(val, pt)
			if err != nil {
				return nil, err
			}
			rv = reflect.ValueOf(conv)
		}
		args = append(args, rv)
	}
	return args, nil
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}
