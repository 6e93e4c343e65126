package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator. Field names in errors use
// the json tag so they match request bodies.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// Struct validates s.
func Struct(s any) error {
	return Validator().Struct(s)
}

// Details turns validator errors into the field/issue list used in error bodies.
func Details(err error) []map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		issue := fe.Tag()
		if fe.Param() != "" {
			issue += "=" + fe.Param()
		}
		out = append(out, map[string]string{"field": fe.Field(), "issue": issue})
	}
	return out
}
