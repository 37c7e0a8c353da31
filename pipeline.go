package ioc

import (
	"reflect"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/zlsgo/ioc/bean"
)

// initialize drives the callback chain on one built instance: aware
// injection, the before-init pass, init callbacks, the after-init pass.
// After-init always runs once an instance exists, even when the before-init
// pass short-circuited the chain.
func (cc *Creation) initialize(name string, raw interface{}, d *bean.Definition) (interface{}, error) {
	c := cc.c
	if err := c.applyAware(name, raw); err != nil {
		return nil, err
	}
	procs := c.snapshotProcs()

	instance := raw
	short := false
	for _, p := range procs {
		out, err := applyHook(p.BeforeInit, instance, name, "before-init")
		if err != nil {
			return nil, err
		}
		if out == nil {
			short = true
			break
		}
		instance = out
	}

	if !short {
		if err := c.invokeInit(name, instance, d); err != nil {
			return nil, err
		}
	}

	return applyAfterInit(procs, instance, name)
}

// applyAfterInit runs the after-init pass; an absent result stops the pass
// and the last non-absent instance stands.
func applyAfterInit(procs []PostProcessor, instance interface{}, name string) (interface{}, error) {
	for _, p := range procs {
		out, err := applyHook(p.AfterInit, instance, name, "after-init")
		if err != nil {
			return nil, err
		}
		if out == nil {
			break
		}
		instance = out
	}
	return instance, nil
}

func applyHook(hook func(interface{}, string) (interface{}, error), instance interface{}, name, phase string) (interface{}, error) {
	var out interface{}
	err := zerror.TryCatch(func() (e error) {
		out, e = hook(instance, name)
		return
	})
	if err != nil {
		return nil, zerror.Wrap(err, bean.ErrInitialization, phase+" of '"+name+"' failed")
	}
	return out, nil
}

// applyBeforeInstantiation gives instantiation-aware processors the chance
// to substitute the bean before any construction happens.
func (cc *Creation) applyBeforeInstantiation(name string, d *bean.Definition) (interface{}, error) {
	for _, p := range cc.c.snapshotProcs() {
		ia, ok := p.(InstantiationAware)
		if !ok {
			continue
		}
		var out interface{}
		err := zerror.TryCatch(func() (e error) {
			out, e = ia.BeforeInstantiation(name, d)
			return
		})
		if err != nil {
			return nil, zerror.Wrap(err, bean.ErrInstantiation, "before-instantiation of '"+name+"' failed")
		}
		if out != nil {
			return out, nil
		}
	}
	return nil, nil
}

func (c *Container) applyAware(name string, instance interface{}) error {
	err := zerror.TryCatch(func() error {
		if a, ok := instance.(NameAware); ok {
			a.SetBeanName(name)
		}
		if a, ok := instance.(ContainerAware); ok {
			a.SetContainer(c)
		}
		return nil
	})
	if err != nil {
		return zerror.Wrap(err, bean.ErrInitialization, "aware callbacks of '"+name+"' failed")
	}
	return nil
}

func (c *Container) invokeInit(name string, instance interface{}, d *bean.Definition) error {
	ran := ""
	if ib, ok := instance.(InitializingBean); ok {
		if err := zerror.TryCatch(ib.Init); err != nil {
			return zerror.Wrap(err, bean.ErrInitialization, "'"+name+"' failed to Init")
		}
		ran = "Init"
	}
	if m := d.InitMethod; m != "" && m != ran {
		if err := callNamed(instance, m); err != nil {
			return zerror.Wrap(err, bean.ErrInitialization, "'"+name+"' failed to "+m)
		}
	}
	return nil
}

// callNamed invokes a no-argument method by name, tolerating an optional
// error return.
func callNamed(instance interface{}, method string) error {
	m := reflect.ValueOf(instance).MethodByName(method)
	if !m.IsValid() {
		return zerror.New(bean.ErrUnsupportedOperation, "no method "+method)
	}
	t := m.Type()
	if t.NumIn() != 0 || t.NumOut() > 1 || (t.NumOut() == 1 && !t.Out(0).Implements(errType)) {
		return zerror.New(bean.ErrUnsupportedOperation, method+" must take no arguments and return at most an error")
	}
	return zerror.TryCatch(func() error {
		out := m.Call(nil)
		if len(out) == 1 {
			if e, _ := out[0].Interface().(error); e != nil {
				return e
			}
		}
		return nil
	})
}
