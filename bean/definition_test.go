package bean

import (
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionModes(t *testing.T) {
	d := New(&widget{})
	assert.Equal(t, ModeType, d.Mode())
	assert.Equal(t, reflect.TypeOf(widget{}), d.Type())

	d = New((*io.Reader)(nil))
	assert.Equal(t, reflect.Interface, d.Type().Kind())

	fn := func() *widget { return &widget{} }
	d = Provide(fn)
	assert.Equal(t, ModeProvider, d.Mode())
	assert.NotNil(t, d.Provider())

	d = Factory("maker", "Build")
	assert.Equal(t, ModeFactory, d.Mode())
	assert.Equal(t, "maker", d.FactoryName())
	assert.Equal(t, "Build", d.FactoryMethod())
}

func TestDefinitionOptions(t *testing.T) {
	d := New(&widget{}, func(d *Definition) {
		d.Scope = Prototype
		d.Lazy = true
		d.InitMethod = "Start"
		d.DestroyMethod = "Stop"
		d.Properties = append(d.Properties, Property{Name: "Size", Value: 7})
	})

	assert.Equal(t, Prototype, d.Scope)
	assert.True(t, d.Lazy)
	assert.Equal(t, "Start", d.InitMethod)
	assert.Equal(t, "Stop", d.DestroyMethod)
	require.Len(t, d.Properties, 1)
	assert.Equal(t, "Size", d.Properties[0].Name)
}

func TestResolveTargetSingleFlight(t *testing.T) {
	d := New(&widget{})
	var calls int32
	target := reflect.ValueOf(func() {})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := d.ResolveTarget(func() (reflect.Value, error) {
				atomic.AddInt32(&calls, 1)
				return target, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, target.Pointer(), v.Pointer())
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDefinitionString(t *testing.T) {
	assert.Equal(t, "type bean.widget", New(&widget{}).String())
	assert.Equal(t, "factory maker.Build", Factory("maker", "Build").String())
}
