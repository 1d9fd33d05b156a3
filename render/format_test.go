package render_test

import (
	"testing"

	"github.com/NethermindEth/blockstats/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSet(t *testing.T) {
	formats := map[string]render.Format{
		"box":  render.Box,
		"JSON": render.JSON,
		"yaml": render.YAML,
	}
	for str, want := range formats {
		t.Run(str, func(t *testing.T) {
			f := new(render.Format)
			require.NoError(t, f.UnmarshalText([]byte(str)))
			assert.Equal(t, want, *f)
		})
	}

	f := new(render.Format)
	require.ErrorIs(t, f.Set("csv"), render.ErrUnknownFormat)
	assert.Equal(t, "Format", f.Type())
	assert.Equal(t, "box", render.Box.String())
}
