package ioc

import (
	"reflect"

	"github.com/sohaha/zlsgo/zerror"
	"github.com/sohaha/zlsgo/ztype"
	"github.com/zlsgo/ioc/bean"
)

// TypeConverter adapts recorded values to the types beans actually need.
// The conversion engine itself stays outside the core; this interface is
// the whole dependency.
type TypeConverter interface {
	Convert(value interface{}, target reflect.Type) (interface{}, error)
}

type ztypeConverter struct{}

func (ztypeConverter) Convert(value interface{}, target reflect.Type) (interface{}, error) {
	switch target.Kind() {
	case reflect.String:
		return ztype.ToString(value), nil
	case reflect.Bool:
		return ztype.ToBool(value), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(ztype.ToInt64(value)).Convert(target).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(ztype.ToUint64(value)).Convert(target).Interface(), nil
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(ztype.ToFloat64(value)).Convert(target).Interface(), nil
	case reflect.Ptr:
		out := reflect.New(target.Elem())
		if err := ztype.ToStruct(value, out.Interface()); err != nil {
			return nil, zerror.Wrap(err, bean.ErrConversion, "cannot convert to "+target.String())
		}
		return out.Interface(), nil
	case reflect.Struct, reflect.Map, reflect.Slice:
		out := reflect.New(target)
		if err := ztype.ToStruct(value, out.Interface()); err != nil {
			return nil, zerror.Wrap(err, bean.ErrConversion, "cannot convert to "+target.String())
		}
		return out.Elem().Interface(), nil
	}
	return nil, zerror.New(bean.ErrConversion, "cannot convert to "+target.String())
}
