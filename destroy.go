package ioc

import (
	"errors"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/zlsgo/ioc/bean"
)

// Close destroys tracked singletons in reverse creation order. One bean
// failing never stops the sweep; failures come back aggregated. The
// container refuses all creation afterwards.
func (c *Container) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.orderMu.Lock()
	names := make([]string, len(c.order))
	copy(names, c.order)
	c.orderMu.Unlock()

	procs := c.snapshotProcs()

	var errs []error
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		v, ok := c.singletons.Get(name)
		if !ok || isNull(v) {
			continue
		}
		if err := c.destroyOne(procs, name, v); err != nil {
			c.log.Warn(name+" destroy failed:", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// destroyOne runs the destruction-aware hooks, the Destroy capability, then
// the custom destroy method. The first failure or panic ends this bean's
// teardown and is reported as its destruction error.
func (c *Container) destroyOne(procs []PostProcessor, name string, v interface{}) error {
	err := zerror.TryCatch(func() error {
		for _, p := range procs {
			if da, ok := p.(DestructionAware); ok {
				if err := da.BeforeDestruction(v, name); err != nil {
					return err
				}
			}
		}
		ran := ""
		if db, ok := v.(DisposableBean); ok {
			if err := db.Destroy(); err != nil {
				return err
			}
			ran = "Destroy"
		}
		if d, e := c.registry.Get(name); e == nil {
			if m := d.DestroyMethod; m != "" && m != ran {
				if err := callNamed(v, m); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return zerror.Wrap(err, bean.ErrDestruction, "'"+name+"' destruction failed")
	}
	c.printLog("Destroy", name)
	return nil
}
