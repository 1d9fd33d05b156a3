package utils_test

import (
	"testing"

	"github.com/NethermindEth/blockstats/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToUint64(t *testing.T) {
	tests := map[string]struct {
		input    any
		expected uint64
	}{
		"lowercase":        {input: "0x1a", expected: 26},
		"zero":             {input: "0x0", expected: 0},
		"uppercase prefix": {input: "0X1A", expected: 26},
		"no prefix":        {input: "ff", expected: 255},
		"max uint64":       {input: "0xffffffffffffffff", expected: ^uint64(0)},
		"gas limit":        {input: "0x1c9c380", expected: 30_000_000},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := utils.HexToUint64(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestHexToUint64Errors(t *testing.T) {
	tests := map[string]struct {
		input any
		err   error
	}{
		"not hex":        {input: "not-hex", err: utils.ErrMalformedHex},
		"empty string":   {input: "", err: utils.ErrMalformedHex},
		"bare prefix":    {input: "0x", err: utils.ErrMalformedHex},
		"overflow":       {input: "0x10000000000000000", err: utils.ErrMalformedHex},
		"negative":       {input: "-0x1", err: utils.ErrMalformedHex},
		"number":         {input: float64(26), err: utils.ErrTypeMismatch},
		"nil":            {input: nil, err: utils.ErrTypeMismatch},
		"bool":           {input: true, err: utils.ErrTypeMismatch},
		"object":         {input: map[string]any{"value": "0x1"}, err: utils.ErrTypeMismatch},
		"list of string": {input: []any{"0x1"}, err: utils.ErrTypeMismatch},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := utils.HexToUint64(test.input)
			require.ErrorIs(t, err, test.err)
		})
	}
}
