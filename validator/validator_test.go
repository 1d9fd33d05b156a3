package validator_test

import (
	"testing"

	"github.com/NethermindEth/blockstats/render"
	"github.com/NethermindEth/blockstats/stats"
	"github.com/NethermindEth/blockstats/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	type endpoint struct {
		URL    string        `validate:"required,eth_url"`
		Fork   stats.Fork    `validate:"oneof=cancun prague"`
		Output render.Format `validate:"oneof=box json yaml"`
	}

	tests := map[string]struct {
		value endpoint
		valid bool
	}{
		"http endpoint": {
			value: endpoint{URL: "http://localhost:8545", Fork: stats.Cancun, Output: render.Box},
			valid: true,
		},
		"websocket endpoint": {
			value: endpoint{URL: "wss://mainnet.example.org/ws", Fork: stats.Prague, Output: render.YAML},
			valid: true,
		},
		"missing url": {
			value: endpoint{Fork: stats.Cancun},
		},
		"unsupported scheme": {
			value: endpoint{URL: "ftp://localhost:8545", Fork: stats.Cancun},
		},
		"no host": {
			value: endpoint{URL: "http://", Fork: stats.Cancun},
		},
		"unknown fork": {
			value: endpoint{URL: "http://localhost:8545"},
		},
		"unknown format": {
			value: endpoint{URL: "http://localhost:8545", Fork: stats.Cancun, Output: render.Format(7)},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := validator.Validator().Struct(test.value)
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.Same(t, validator.Validator(), validator.Validator())
}
