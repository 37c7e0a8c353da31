package ioc

import (
	"strings"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/zlsgo/ioc/bean"
)

// Creation carries one top-level lookup and every nested lookup it causes.
// The chain is what makes circular construction detectable without any
// thread-local state: a name may appear on it at most once.
type Creation struct {
	c              *Container
	id             uint64
	path           []string
	seen           map[string]struct{}
	locked         bool
	invokedFactory string
}

// Container returns the owning container.
func (cc *Creation) Container() *Container { return cc.c }

// Get resolves name inside the current chain, so cycles through user
// providers and factories are still caught.
func (cc *Creation) Get(name string) (interface{}, error) {
	v, err := cc.get(name)
	if err != nil || isNull(v) {
		return nil, err
	}
	return v, nil
}

// Path returns the names under construction on this chain, outermost first.
func (cc *Creation) Path() []string {
	out := make([]string, len(cc.path))
	copy(out, cc.path)
	return out
}

// InCreation reports whether any chain is currently constructing name.
func (cc *Creation) InCreation(name string) bool {
	return cc.c.inflight.Has(name)
}

// InvokedFactory names the factory method currently executing on this
// chain, empty outside factory invocation.
func (cc *Creation) InvokedFactory() string { return cc.invokedFactory }

func (cc *Creation) get(name string) (interface{}, error) {
	c := cc.c
	if v, ok := c.singletons.Get(name); ok {
		return v, nil
	}
	d, err := c.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if d.Scope == bean.Prototype {
		return cc.create(name, d)
	}
	if !cc.locked {
		c.createMu.Lock()
		cc.locked = true
		defer func() {
			cc.locked = false
			c.createMu.Unlock()
		}()
		if v, ok := c.singletons.Get(name); ok {
			return v, nil
		}
	}
	v, err := cc.create(name, d)
	if err != nil {
		return nil, err
	}
	c.singletons.Set(name, v)
	c.track(name)
	return v, nil
}

// create runs the whole build for one name: in-flight bookkeeping, the
// before-instantiation pass, strategy, population, the init pipeline. The
// name leaves the in-flight set on every exit.
func (cc *Creation) create(name string, d *bean.Definition) (interface{}, error) {
	if _, ok := cc.seen[name]; ok {
		return nil, zerror.New(bean.ErrCircularCreation,
			"circular creation of '"+name+"': "+strings.Join(append(cc.Path(), name), " -> "))
	}
	cc.seen[name] = struct{}{}
	cc.path = append(cc.path, name)
	cc.c.inflight.Set(name, cc.id)
	defer func() {
		delete(cc.seen, name)
		cc.path = cc.path[:len(cc.path)-1]
		if id, ok := cc.c.inflight.Get(name); ok && id == cc.id {
			cc.c.inflight.Delete(name)
		}
	}()

	c := cc.c
	c.printLog("Create", name, d.String())

	sub, err := cc.applyBeforeInstantiation(name, d)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return applyAfterInit(c.snapshotProcs(), sub, name)
	}

	raw, err := cc.instantiate(name, d)
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return raw, nil
	}
	if err = cc.populate(name, raw, d); err != nil {
		return nil, err
	}
	return cc.initialize(name, raw, d)
}

func (cc *Creation) instantiate(name string, d *bean.Definition) (interface{}, error) {
	s := cc.c.strategy
	switch d.Mode() {
	case bean.ModeFactory:
		factory, err := cc.get(d.FactoryName())
		if err != nil {
			return nil, zerror.With(err, "factory bean '"+d.FactoryName()+"' of '"+name+"' unavailable")
		}
		if isNull(factory) {
			return nil, zerror.New(bean.ErrInstantiation, "factory bean '"+d.FactoryName()+"' of '"+name+"' produced no object")
		}
		return s.InstantiateFactory(cc, d, name, factory)
	case bean.ModeProvider:
		return s.InstantiateProvider(cc, d, name)
	default:
		return s.Instantiate(cc, d, name)
	}
}
