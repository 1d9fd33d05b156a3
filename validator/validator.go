package validator

import (
	"net/url"
	"reflect"
	"sync"

	"github.com/NethermindEth/blockstats/render"
	"github.com/NethermindEth/blockstats/stats"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// validateEthURL accepts the endpoint schemes supported by the JSON-RPC client.
func validateEthURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return true
	default:
		return false
	}
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("eth_url", validateEthURL); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		// Register these types to use their string representation for validation
		// purposes. Unknown values map to the empty string.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if f, ok := field.Interface().(stats.Fork); ok {
				switch f {
				case stats.Cancun, stats.Prague:
					return f.String()
				}
				return ""
			}
			panic("not a stats.Fork")
		}, stats.Fork(0))
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if f, ok := field.Interface().(render.Format); ok {
				switch f {
				case render.Box, render.JSON, render.YAML:
					return f.String()
				}
				return ""
			}
			panic("not a render.Format")
		}, render.Format(0))
	})
	return v
}
