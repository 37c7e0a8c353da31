package ioc

import (
	"sort"

	"github.com/zlsgo/ioc/bean"
)

// PostProcessor intercepts every bean around initialization. Both hooks
// return the instance to keep using, so a processor may wrap or replace it.
// Returning a nil instance stops the remaining processors in that pass.
type PostProcessor interface {
	BeforeInit(instance interface{}, name string) (interface{}, error)
	AfterInit(instance interface{}, name string) (interface{}, error)
}

// InstantiationAware post-processors additionally run before the strategy.
// A non-nil result becomes the bean without construction, population or
// init callbacks; only the after-init pass still applies to it.
type InstantiationAware interface {
	PostProcessor
	BeforeInstantiation(name string, d *bean.Definition) (interface{}, error)
}

// DestructionAware post-processors run against each tracked singleton
// before its own destroy callbacks.
type DestructionAware interface {
	PostProcessor
	BeforeDestruction(instance interface{}, name string) error
}

// Ordered lets a processor declare precedence. Lower runs earlier; ordered
// processors run before unordered ones, ties keep registration order.
type Ordered interface {
	Order() int
}

// FactoryPostProcessor rewrites definitions after registration and before
// any instantiation.
type FactoryPostProcessor interface {
	PostProcessRegistry(r *bean.Registry) error
}

// AddPostProcessor registers p. Additions are rare and never disturb a
// creation already iterating its snapshot.
func (c *Container) AddPostProcessor(p PostProcessor) {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	c.procs = append(c.procs, p)
	sort.SliceStable(c.procs, func(i, j int) bool {
		oi, iok := c.procs[i].(Ordered)
		oj, jok := c.procs[j].(Ordered)
		if iok && jok {
			return oi.Order() < oj.Order()
		}
		return iok && !jok
	})
}

func (c *Container) AddFactoryPostProcessor(p FactoryPostProcessor) {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	c.factoryProcs = append(c.factoryProcs, p)
}

func (c *Container) snapshotProcs() []PostProcessor {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	out := make([]PostProcessor, len(c.procs))
	copy(out, c.procs)
	return out
}

func (c *Container) snapshotFactoryProcs() []FactoryPostProcessor {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	out := make([]FactoryPostProcessor, len(c.factoryProcs))
	copy(out, c.factoryProcs)
	return out
}
