// Package bean holds the definition model of the container: metadata that
// describes how to construct and configure a named object, and the registry
// those definitions live in.
package bean

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sohaha/zlsgo/zerror"
)

type Scope uint8

const (
	Singleton Scope = iota
	Prototype
)

// Mode is how a definition produces its raw instance.
type Mode uint8

const (
	// ModeType builds the zero value of a registered struct type.
	ModeType Mode = iota
	// ModeProvider calls a constructor function with recorded arguments.
	ModeProvider
	// ModeFactory invokes a named method on another registered bean.
	ModeFactory
)

// Property records one field assignment applied after instantiation.
type Property struct {
	Name  string
	Value interface{}
}

// Ref marks a property value as a reference to another bean, resolved
// through the container when the owning instance is populated.
type Ref string

// Definition describes how to build and configure one named object. Create
// through New, Provide or Factory; tweak the exported fields in an option
// closure before registering. Mutation must stop once the container starts
// building from the definition.
type Definition struct {
	mode          Mode
	typ           reflect.Type
	provider      interface{}
	factoryName   string
	factoryMethod string

	Args          []interface{}
	Properties    []Property
	InitMethod    string
	DestroyMethod string
	Scope         Scope
	Lazy          bool
	// Overrides marks definitions whose methods are replaced at
	// instantiation time, which needs a dynamic-subclass delegate.
	Overrides bool

	resolveMu sync.Mutex
	resolved  atomic.Pointer[reflect.Value]
}

// New describes a bean built as the zero value of target's type. target is
// a pointer to the concrete type, or a reflect.Type; one pointer level is
// stripped, so (*Shape)(nil) registers the interface type itself.
func New(target interface{}, opt ...func(*Definition)) *Definition {
	var t reflect.Type
	switch v := target.(type) {
	case reflect.Type:
		t = v
	default:
		t = reflect.TypeOf(target)
		if t != nil && t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
	}
	return apply(&Definition{mode: ModeType, typ: t}, opt)
}

// Provide describes a bean built by calling fn with the definition's Args.
// fn returns the instance, optionally followed by an error. A leading
// creation-context parameter, when declared, receives the active chain so
// fn can resolve other beans while building.
func Provide(fn interface{}, opt ...func(*Definition)) *Definition {
	return apply(&Definition{mode: ModeProvider, provider: fn}, opt)
}

// Factory describes a bean produced by invoking method on the bean named
// factory. The factory bean is resolved through the same creation chain as
// any other dependency.
func Factory(factory, method string, opt ...func(*Definition)) *Definition {
	return apply(&Definition{mode: ModeFactory, factoryName: factory, factoryMethod: method}, opt)
}

func apply(d *Definition, opt []func(*Definition)) *Definition {
	for _, o := range opt {
		o(d)
	}
	return d
}

func (d *Definition) Mode() Mode            { return d.mode }
func (d *Definition) Type() reflect.Type    { return d.typ }
func (d *Definition) Provider() interface{} { return d.provider }
func (d *Definition) FactoryName() string   { return d.factoryName }
func (d *Definition) FactoryMethod() string { return d.factoryMethod }

// ResolveTarget returns the cached invocation target, computing it at most
// once per definition. Concurrent callers for the same definition resolve
// single-flight; the fast path is lock-free.
func (d *Definition) ResolveTarget(resolve func() (reflect.Value, error)) (reflect.Value, error) {
	if v := d.resolved.Load(); v != nil {
		return *v, nil
	}
	d.resolveMu.Lock()
	defer d.resolveMu.Unlock()
	if v := d.resolved.Load(); v != nil {
		return *v, nil
	}
	v, err := resolve()
	if err != nil {
		return reflect.Value{}, err
	}
	d.resolved.Store(&v)
	return v, nil
}

func (d *Definition) String() string {
	switch d.mode {
	case ModeProvider:
		return "provider " + reflect.TypeOf(d.provider).String()
	case ModeFactory:
		return "factory " + d.factoryName + "." + d.factoryMethod
	default:
		if d.typ == nil {
			return "type <nil>"
		}
		return "type " + d.typ.String()
	}
}

func (d *Definition) validate() error {
	if d == nil {
		return zerror.New(ErrInvalidDefinition, "nil definition")
	}
	switch d.mode {
	case ModeType:
		if d.typ == nil {
			return zerror.New(ErrInvalidDefinition, "definition has no target type")
		}
	case ModeProvider:
		if d.provider == nil || reflect.TypeOf(d.provider).Kind() != reflect.Func {
			return zerror.New(ErrInvalidDefinition, "provider must be a function")
		}
	case ModeFactory:
		if d.factoryName == "" || d.factoryMethod == "" {
			return zerror.New(ErrInvalidDefinition, "factory definition needs a bean name and method")
		}
	}
	return nil
}
