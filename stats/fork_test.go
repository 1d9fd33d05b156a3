package stats_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/NethermindEth/blockstats/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var forkStrings = map[stats.Fork]string{
	stats.Cancun: "cancun",
	stats.Prague: "prague",
}

func TestForkString(t *testing.T) {
	for fork, str := range forkStrings {
		assert.Equal(t, str, fork.String())
	}
}

func TestForkSet(t *testing.T) {
	for fork, str := range forkStrings {
		t.Run("fork "+str, func(t *testing.T) {
			f := new(stats.Fork)
			require.NoError(t, f.Set(str))
			assert.Equal(t, fork, *f)
		})
		uppercase := strings.ToUpper(str)
		t.Run("fork "+uppercase, func(t *testing.T) {
			f := new(stats.Fork)
			require.NoError(t, f.UnmarshalText([]byte(uppercase)))
			assert.Equal(t, fork, *f)
		})
	}

	t.Run("unknown fork", func(t *testing.T) {
		f := new(stats.Fork)
		require.ErrorIs(t, f.Set("osaka"), stats.ErrUnknownFork)
	})
}

func TestForkMarshal(t *testing.T) {
	for fork, str := range forkStrings {
		t.Run("fork "+str, func(t *testing.T) {
			b, err := json.Marshal(&fork)
			require.NoError(t, err)
			assert.Equal(t, `"`+str+`"`, string(b))

			b, err = yaml.Marshal(fork)
			require.NoError(t, err)
			assert.Equal(t, str+"\n", string(b))
		})
	}
}

func TestBlobScheduleFor(t *testing.T) {
	tests := map[stats.Fork]stats.BlobSchedule{
		stats.Cancun: {Target: 393_216, Max: 786_432},
		stats.Prague: {Target: 786_432, Max: 1_179_648},
	}
	for fork, want := range tests {
		t.Run(fork.String(), func(t *testing.T) {
			got, err := stats.BlobScheduleFor(fork)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("unknown fork", func(t *testing.T) {
		_, err := stats.BlobScheduleFor(stats.Fork(0))
		require.ErrorIs(t, err, stats.ErrUnknownFork)
	})
}
