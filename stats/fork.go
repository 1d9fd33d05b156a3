package stats

import (
	"encoding"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/params"
	"github.com/spf13/pflag"
)

var ErrUnknownFork = errors.New("unknown fork (known: cancun, prague)")

// Fork selects the blob gas schedule used for EIP-4844 analysis.
type Fork int

// The following are necessary for Cobra and Viper, respectively, to unmarshal the fork
// CLI/config parameters properly.
var (
	_ pflag.Value              = (*Fork)(nil)
	_ encoding.TextUnmarshaler = (*Fork)(nil)
)

const (
	Cancun Fork = iota + 1
	Prague
)

// BlobSchedule holds the per-block blob gas parameters of a fork.
type BlobSchedule struct {
	Target uint64 `json:"target" yaml:"target"`
	Max    uint64 `json:"max" yaml:"max"`
}

// BlobScheduleFor is the single lookup for blob gas protocol parameters.
func BlobScheduleFor(f Fork) (BlobSchedule, error) {
	switch f {
	case Cancun:
		return BlobSchedule{
			Target: params.BlobTxTargetBlobGasPerBlock,
			Max:    params.MaxBlobGasPerBlock,
		}, nil
	case Prague:
		// EIP-7691: six target and nine maximum blobs per block.
		return BlobSchedule{
			Target: 6 * params.BlobTxBlobGasPerBlob,
			Max:    9 * params.BlobTxBlobGasPerBlob,
		}, nil
	default:
		return BlobSchedule{}, ErrUnknownFork
	}
}

func (f Fork) String() string {
	switch f {
	case Cancun:
		return "cancun"
	case Prague:
		return "prague"
	default:
		// Should not happen.
		panic(ErrUnknownFork)
	}
}

func (f Fork) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

func (f *Fork) MarshalJSON() ([]byte, error) {
	return json.RawMessage(`"` + f.String() + `"`), nil
}

func (f *Fork) Set(s string) error {
	switch s {
	case "CANCUN", "cancun":
		*f = Cancun
	case "PRAGUE", "prague":
		*f = Prague
	default:
		return ErrUnknownFork
	}
	return nil
}

func (f *Fork) Type() string {
	return "Fork"
}

func (f *Fork) UnmarshalText(text []byte) error {
	return f.Set(string(text))
}
