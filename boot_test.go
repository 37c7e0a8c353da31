package ioc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zlsgo/ioc/bean"
)

func TestBootBuildsEagerSingletons(t *testing.T) {
	c := newTestContainer()
	rec := &recorder{}
	reg := func(name string, opt ...func(*bean.Definition)) {
		require.NoError(t, c.Register(name, bean.Provide(func() *widget {
			rec.add("built:" + name)
			return &widget{}
		}, opt...)))
	}
	reg("first")
	reg("second")
	reg("sleepy", func(d *bean.Definition) { d.Lazy = true })
	reg("fresh", func(d *bean.Definition) { d.Scope = bean.Prototype })

	require.NoError(t, c.Boot())
	assert.Equal(t, []string{"built:first", "built:second"}, rec.list())

	_, err := c.Get("sleepy")
	require.NoError(t, err)
	assert.Contains(t, rec.list(), "built:sleepy")
}

func TestBootStopsAtFirstFailure(t *testing.T) {
	c := newTestContainer()
	rec := &recorder{}
	require.NoError(t, c.Register("ok", bean.Provide(func() *widget {
		rec.add("built:ok")
		return &widget{}
	})))
	require.NoError(t, c.Register("bad", bean.Provide(func() (*widget, error) {
		return nil, errors.New("dead")
	})))
	require.NoError(t, c.Register("never", bean.Provide(func() *widget {
		rec.add("built:never")
		return &widget{}
	})))

	err := c.Boot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad failed to start")
	assert.Contains(t, errText(err), "dead")
	assert.Equal(t, []string{"built:ok"}, rec.list())
}

type sizingProcessor struct {
	calls int
}

func (p *sizingProcessor) PostProcessRegistry(r *bean.Registry) error {
	p.calls++
	for _, name := range r.Names() {
		d, err := r.Get(name)
		if err != nil {
			return err
		}
		d.Properties = append(d.Properties, bean.Property{Name: "Size", Value: 42})
	}
	return nil
}

func TestFactoryPostProcessorRewritesOnce(t *testing.T) {
	c := newTestContainer()
	p := &sizingProcessor{}
	c.AddFactoryPostProcessor(p)
	require.NoError(t, c.Register("w", bean.New(&widget{})))

	require.NoError(t, c.Boot())
	require.NoError(t, c.Boot())
	assert.Equal(t, 1, p.calls)

	v, err := c.Get("w")
	require.NoError(t, err)
	assert.Equal(t, 42, v.(*widget).Size)
}

type failingRegistryProcessor struct{}

func (failingRegistryProcessor) PostProcessRegistry(r *bean.Registry) error {
	return errors.New("bad wiring")
}

func TestFactoryPostProcessorFailureAborts(t *testing.T) {
	c := newTestContainer()
	c.AddFactoryPostProcessor(failingRegistryProcessor{})
	rec := &recorder{}
	require.NoError(t, c.Register("w", bean.Provide(func() *widget {
		rec.add("built")
		return &widget{}
	})))

	err := c.Boot()
	require.Error(t, err)
	assert.Contains(t, errText(err), "bad wiring")
	assert.Empty(t, rec.list())
}

func TestBootAfterClose(t *testing.T) {
	c := newTestContainer()
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Boot(), ErrClosed)
}
