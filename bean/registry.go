package bean

import (
	"sync"

	"github.com/sohaha/zlsgo/zarray"
	"github.com/sohaha/zlsgo/zerror"
)

// AliasResolver is consulted before registration so a definition can never
// shadow a reserved alias. Alias bookkeeping itself lives outside the
// registry.
type AliasResolver interface {
	IsAlias(name string) bool
}

// Option configures a Registry.
type Option struct {
	// AllowOverride lets a later definition replace an earlier one under
	// the same name. Off by default: duplicates are an error.
	AllowOverride bool
	// Aliases reserves names managed elsewhere.
	Aliases AliasResolver
}

// Registry maps bean names to definitions. Lookups are lock-free and safe
// under concurrent registration; enumeration is stable in registration
// order.
type Registry struct {
	opt  Option
	defs *zarray.Maper[string, *Definition]

	mu    sync.RWMutex
	names []string
}

func NewRegistry(opt ...func(*Option)) *Registry {
	o := Option{}
	for _, f := range opt {
		f(&o)
	}
	return &Registry{opt: o, defs: zarray.NewHashMap[string, *Definition]()}
}

// Register stores d under name. A name already holding a definition is
// rejected unless overriding is allowed; a name reserved as an alias is
// always rejected.
func (r *Registry) Register(name string, d *Definition) error {
	if name == "" {
		return zerror.New(ErrInvalidDefinition, "bean name required")
	}
	if err := d.validate(); err != nil {
		return zerror.With(err, "register "+name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opt.Aliases != nil && r.opt.Aliases.IsAlias(name) {
		return zerror.New(ErrDuplicateDefinition, "name '"+name+"' is reserved by an alias")
	}
	if r.defs.Has(name) {
		if !r.opt.AllowOverride {
			return zerror.New(ErrDuplicateDefinition, "bean '"+name+"' is already registered")
		}
		r.defs.Set(name, d)
		return nil
	}
	r.defs.Set(name, d)
	r.names = append(r.names, name)
	return nil
}

func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.defs.Has(name) {
		return zerror.New(ErrNotFound, "no bean named '"+name+"'")
	}
	r.defs.Delete(name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Registry) Get(name string) (*Definition, error) {
	d, ok := r.defs.Get(name)
	if !ok {
		return nil, zerror.New(ErrNotFound, "no bean named '"+name+"'")
	}
	return d, nil
}

func (r *Registry) Contains(name string) bool { return r.defs.Has(name) }

func (r *Registry) Count() int { return r.defs.Len() }

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// InUse reports whether name is taken by a definition or a reserved alias.
func (r *Registry) InUse(name string) bool {
	if r.defs.Has(name) {
		return true
	}
	return r.opt.Aliases != nil && r.opt.Aliases.IsAlias(name)
}
