// Package processors ships ready-made post-processors for the container:
// closure hooks, lifecycle logging and struct validation.
package processors

import (
	"github.com/zlsgo/ioc"
)

// Hooks is a closure-driven post-processor for callers that do not want a
// named type per concern. Nil hooks pass the instance through unchanged.
type Hooks struct {
	Name            string
	OnBeforeInit    func(instance interface{}, name string) (interface{}, error)
	OnAfterInit     func(instance interface{}, name string) (interface{}, error)
	OnBeforeDestroy func(instance interface{}, name string) error
}

var _ ioc.DestructionAware = &Hooks{}

func (h *Hooks) BeforeInit(instance interface{}, name string) (interface{}, error) {
	if h.OnBeforeInit != nil {
		return h.OnBeforeInit(instance, name)
	}
	return instance, nil
}

func (h *Hooks) AfterInit(instance interface{}, name string) (interface{}, error) {
	if h.OnAfterInit != nil {
		return h.OnAfterInit(instance, name)
	}
	return instance, nil
}

func (h *Hooks) BeforeDestruction(instance interface{}, name string) error {
	if h.OnBeforeDestroy != nil {
		return h.OnBeforeDestroy(instance, name)
	}
	return nil
}

// Ordered fixes a precedence on a plain processor that does not declare one
// itself. Destruction and instantiation extensions are not promoted through
// the wrapper.
type Ordered struct {
	ioc.PostProcessor
	Precedence int
}

func (o Ordered) Order() int { return o.Precedence }
