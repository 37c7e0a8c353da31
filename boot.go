package ioc

import (
	"strings"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/zlsgo/ioc/bean"
)

// Boot runs registry post-processing once, then builds every non-lazy
// singleton definition in registration order, stopping at the first
// failure.
func (c *Container) Boot() error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.processed.CompareAndSwap(false, true) {
		for _, p := range c.snapshotFactoryProcs() {
			if err := p.PostProcessRegistry(c.registry); err != nil {
				return zerror.With(err, "registry post-processing failed")
			}
		}
	}
	for _, name := range c.registry.Names() {
		d, err := c.registry.Get(name)
		if err != nil {
			continue
		}
		if d.Scope != bean.Singleton || d.Lazy {
			continue
		}
		if _, err := c.Get(name); err != nil {
			return zerror.With(err, name+" failed to start")
		}
	}
	c.printLog("Boot", "container ready")
	return nil
}

// MustBoot exits the process on a failed Boot, reporting the whole error
// chain.
func (c *Container) MustBoot() {
	if err := c.Boot(); err != nil {
		c.log.Fatal(strings.Join(zerror.UnwrapErrors(err), ": "))
	}
}
