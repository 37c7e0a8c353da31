package processors

import (
	"strings"
	"testing"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/sohaha/zlsgo/zlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zlsgo/ioc"
	"github.com/zlsgo/ioc/bean"
)

func errText(err error) string {
	return strings.Join(zerror.UnwrapErrors(err), ": ")
}

type service struct {
	Addr string `validate:"required"`
	Port int    `validate:"gte=1,lte=65535"`
}

func TestHooksFire(t *testing.T) {
	c := ioc.New()
	var events []string
	c.AddPostProcessor(&Hooks{
		Name: "tracker",
		OnBeforeInit: func(v interface{}, name string) (interface{}, error) {
			events = append(events, "before:"+name)
			return v, nil
		},
		OnAfterInit: func(v interface{}, name string) (interface{}, error) {
			events = append(events, "after:"+name)
			return v, nil
		},
		OnBeforeDestroy: func(v interface{}, name string) error {
			events = append(events, "destroy:"+name)
			return nil
		},
	})
	require.NoError(t, c.Register("svc", bean.New(&service{}, func(d *bean.Definition) {
		d.Properties = []bean.Property{{Name: "Addr", Value: "127.0.0.1"}, {Name: "Port", Value: 80}}
	})))

	_, err := c.Get("svc")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.Equal(t, []string{"before:svc", "after:svc", "destroy:svc"}, events)
}

func TestHooksNilPassThrough(t *testing.T) {
	c := ioc.New()
	c.AddPostProcessor(&Hooks{Name: "noop"})
	s := &service{Addr: "x"}
	require.NoError(t, c.Register("svc", bean.Provide(func() *service { return s })))

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Same(t, s, v)
}

func TestOrderedWrapperPrecedence(t *testing.T) {
	c := ioc.New()
	var events []string
	rec := func(id string) *Hooks {
		return &Hooks{OnBeforeInit: func(v interface{}, name string) (interface{}, error) {
			events = append(events, id)
			return v, nil
		}}
	}
	c.AddPostProcessor(rec("plain"))
	c.AddPostProcessor(Ordered{PostProcessor: rec("wrapped"), Precedence: -5})
	require.NoError(t, c.Register("svc", bean.New(&service{})))

	_, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, []string{"wrapped", "plain"}, events)
}

func TestValidatorRejectsInvalid(t *testing.T) {
	c := ioc.New()
	c.AddPostProcessor(NewValidator())
	require.NoError(t, c.Register("svc", bean.New(&service{}, func(d *bean.Definition) {
		d.Properties = []bean.Property{{Name: "Port", Value: 80}}
	})))

	_, err := c.Get("svc")
	require.Error(t, err)
	assert.Contains(t, errText(err), "failed validation")
}

func TestValidatorAcceptsValid(t *testing.T) {
	c := ioc.New()
	c.AddPostProcessor(NewValidator())
	require.NoError(t, c.Register("svc", bean.New(&service{}, func(d *bean.Definition) {
		d.Properties = []bean.Property{{Name: "Addr", Value: "127.0.0.1"}, {Name: "Port", Value: 80}}
	})))

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", v.(*service).Addr)
}

func TestValidatorIgnoresNonStruct(t *testing.T) {
	c := ioc.New()
	c.AddPostProcessor(NewValidator())
	require.NoError(t, c.Register("limits", bean.Provide(func() map[string]int {
		return map[string]int{"max": 10}
	})))

	v, err := c.Get("limits")
	require.NoError(t, err)
	assert.Equal(t, 10, v.(map[string]int)["max"])
}

func TestLoggingNeverSubstitutes(t *testing.T) {
	c := ioc.New()
	quiet := zlog.New("[lifecycle] ")
	quiet.SetLogLevel(zlog.LogWarn)
	c.AddPostProcessor(&Logging{Log: quiet, Precedence: -100})
	s := &service{Addr: "x"}
	require.NoError(t, c.Register("svc", bean.Provide(func() *service { return s })))

	v, err := c.Get("svc")
	require.NoError(t, err)
	assert.Same(t, s, v)
	require.NoError(t, c.Close())
}
