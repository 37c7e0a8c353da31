package processors

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/sohaha/zlsgo/zerror"
	"github.com/zlsgo/ioc"
)

// Validator rejects beans whose struct tags fail validation, after their
// properties are set and before their init callbacks run. Non-struct beans
// pass through untouched.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

var _ ioc.PostProcessor = &Validator{}

func (v *Validator) BeforeInit(instance interface{}, name string) (interface{}, error) {
	if reflect.Indirect(reflect.ValueOf(instance)).Kind() != reflect.Struct {
		return instance, nil
	}
	if err := v.validate.Struct(instance); err != nil {
		return nil, zerror.With(err, "'"+name+"' failed validation")
	}
	return instance, nil
}

func (v *Validator) AfterInit(instance interface{}, name string) (interface{}, error) {
	return instance, nil
}
