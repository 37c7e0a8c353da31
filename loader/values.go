package loader

import (
	"strings"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/sohaha/zlsgo/ztype"
	gconf "github.com/zlsgo/conf"
	"github.com/zlsgo/ioc/bean"
)

// Values resolves ${key} and ${key:fallback} placeholders against the
// loader's configuration. Install it as the container's resolver to let
// recorded values reference the file.
type Values struct {
	cfg *gconf.Confhub
}

func (l *Loader) Values() *Values {
	return &Values{cfg: l.cfg}
}

// Resolve expands expr. An expression that is exactly one placeholder keeps
// the raw configured type; anything else interpolates into a string.
func (v *Values) Resolve(expr string) (interface{}, error) {
	start := strings.Index(expr, "${")
	if start == -1 {
		return expr, nil
	}
	if start == 0 && strings.HasSuffix(expr, "}") && strings.Index(expr, "}") == len(expr)-1 {
		return v.lookup(expr[2 : len(expr)-1])
	}

	var b strings.Builder
	rest := expr
	for {
		i := strings.Index(rest, "${")
		if i == -1 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:i])
		rest = rest[i+2:]
		j := strings.Index(rest, "}")
		if j == -1 {
			return nil, zerror.New(bean.ErrConversion, "unterminated placeholder in '"+expr+"'")
		}
		val, err := v.lookup(rest[:j])
		if err != nil {
			return nil, err
		}
		b.WriteString(ztype.ToString(val))
		rest = rest[j+1:]
	}
}

func (v *Values) lookup(key string) (interface{}, error) {
	key, fallback, ok := strings.Cut(key, ":")
	val := v.cfg.Core.Get(key)
	if val == nil {
		if ok {
			return fallback, nil
		}
		return nil, zerror.New(bean.ErrConversion, "placeholder '"+key+"' unresolved")
	}
	return val, nil
}
