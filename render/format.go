package render

import (
	"encoding"
	"encoding/json"
	"errors"

	"github.com/spf13/pflag"
)

var ErrUnknownFormat = errors.New("unknown output format (known: box, json, yaml)")

type Format int

// The following are necessary for Cobra and Viper, respectively, to unmarshal the output
// CLI/config parameters properly.
var (
	_ pflag.Value              = (*Format)(nil)
	_ encoding.TextUnmarshaler = (*Format)(nil)
)

const (
	Box Format = iota
	JSON
	YAML
)

func (f Format) String() string {
	switch f {
	case Box:
		return "box"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		// Should not happen.
		panic(ErrUnknownFormat)
	}
}

func (f Format) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

func (f *Format) MarshalJSON() ([]byte, error) {
	return json.RawMessage(`"` + f.String() + `"`), nil
}

func (f *Format) Set(s string) error {
	switch s {
	case "BOX", "box":
		*f = Box
	case "JSON", "json":
		*f = JSON
	case "YAML", "yaml":
		*f = YAML
	default:
		return ErrUnknownFormat
	}
	return nil
}

func (f *Format) Type() string {
	return "Format"
}

func (f *Format) UnmarshalText(text []byte) error {
	return f.Set(string(text))
}
