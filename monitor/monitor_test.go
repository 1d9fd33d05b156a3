package monitor_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/NethermindEth/blockstats/eth"
	"github.com/NethermindEth/blockstats/eth/mocks"
	"github.com/NethermindEth/blockstats/monitor"
	"github.com/NethermindEth/blockstats/stats"
	"github.com/NethermindEth/blockstats/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingRenderer struct {
	numbers []uint64
	err     error
}

func (r *recordingRenderer) Render(_ io.Writer, s *stats.Summary) error {
	r.numbers = append(r.numbers, s.Header.Number)
	return r.err
}

type failure struct {
	stage monitor.Stage
	err   error
}

func recordingListener(summaries *[]uint64, failures *[]failure) *monitor.SelectiveListener {
	return &monitor.SelectiveListener{
		OnSummaryCb: func(s *stats.Summary) {
			*summaries = append(*summaries, s.Header.Number)
		},
		OnFailureCb: func(stage monitor.Stage, err error) {
			*failures = append(*failures, failure{stage: stage, err: err})
		},
	}
}

func validBlock() stats.RawBlock {
	return stats.RawBlock{
		"hash":          "0xabc",
		"miner":         "0xfee",
		"size":          "0x400",
		"timestamp":     "0x6553f100",
		"gasUsed":       "0x0",
		"gasLimit":      "0x1c9c380",
		"baseFeePerGas": "0x3b9aca00",
		"transactions":  []any{},
	}
}

func newMonitor(t *testing.T, resyncEvery uint64) (*monitor.Monitor, *mocks.MockClient, *recordingRenderer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	renderer := &recordingRenderer{}
	cfg := monitor.Config{
		PollInterval: time.Hour,
		ResyncEvery:  resyncEvery,
	}
	return monitor.New(client, cfg, renderer, io.Discard, utils.NewNopZapLogger()), client, renderer
}

func TestStepResyncCadence(t *testing.T) {
	m, client, renderer := newMonitor(t, 3)

	client.EXPECT().BlockNumber(gomock.Any()).Return(uint64(100), nil).Times(3)
	client.EXPECT().BlockByNumber(gomock.Any(), gomock.Any()).Return(validBlock(), nil).Times(7)

	var state monitor.State
	for i := 0; i < 7; i++ {
		state = m.Step(context.Background(), state)
	}

	assert.Equal(t, []uint64{100, 101, 102, 100, 101, 102, 100}, renderer.numbers)
	assert.Equal(t, monitor.State{Cycle: 7, Block: 101}, state)
}

func TestStepFetchFailure(t *testing.T) {
	var (
		summaries []uint64
		failures  []failure
	)
	m, client, renderer := newMonitor(t, 20)
	m.WithListener(recordingListener(&summaries, &failures))

	tests := map[string]error{
		"transport error": eth.ErrTransport,
		"not produced":    eth.ErrBlockNotFound,
	}
	for name, fetchErr := range tests {
		t.Run(name, func(t *testing.T) {
			failures = nil
			client.EXPECT().BlockByNumber(gomock.Any(), uint64(42)).Return(nil, fetchErr)

			state := m.Step(context.Background(), monitor.State{Cycle: 1, Block: 42})

			assert.Equal(t, monitor.State{Cycle: 2, Block: 42}, state)
			require.Len(t, failures, 1)
			assert.Equal(t, monitor.StageFetch, failures[0].stage)
			assert.ErrorIs(t, failures[0].err, fetchErr)
		})
	}

	assert.Empty(t, renderer.numbers)
	assert.Empty(t, summaries)
}

func TestStepRetriesMalformedBlock(t *testing.T) {
	var (
		summaries []uint64
		failures  []failure
	)
	m, client, renderer := newMonitor(t, 20)
	m.WithListener(recordingListener(&summaries, &failures))

	malformed := validBlock()
	delete(malformed, "hash")
	client.EXPECT().BlockByNumber(gomock.Any(), uint64(42)).Return(malformed, nil)

	state := m.Step(context.Background(), monitor.State{Cycle: 1, Block: 42})

	assert.Equal(t, monitor.State{Cycle: 2, Block: 42}, state)
	require.Len(t, failures, 1)
	assert.Equal(t, monitor.StageSummarize, failures[0].stage)
	assert.ErrorIs(t, failures[0].err, stats.ErrMissingField)
	assert.Empty(t, renderer.numbers)
	assert.Empty(t, summaries)

	client.EXPECT().BlockByNumber(gomock.Any(), uint64(42)).Return(validBlock(), nil)

	state = m.Step(context.Background(), state)

	assert.Equal(t, monitor.State{Cycle: 3, Block: 43}, state)
	assert.Equal(t, []uint64{42}, renderer.numbers)
	assert.Equal(t, []uint64{42}, summaries)
}

func TestStepResyncFailureFallsThrough(t *testing.T) {
	var (
		summaries []uint64
		failures  []failure
	)
	m, client, renderer := newMonitor(t, 20)
	m.WithListener(recordingListener(&summaries, &failures))

	resyncErr := errors.New("connection refused")
	client.EXPECT().BlockNumber(gomock.Any()).Return(uint64(0), resyncErr)
	client.EXPECT().BlockByNumber(gomock.Any(), uint64(50)).Return(validBlock(), nil)

	state := m.Step(context.Background(), monitor.State{Cycle: 20, Block: 50})

	assert.Equal(t, monitor.State{Cycle: 21, Block: 51}, state)
	assert.Equal(t, []uint64{50}, renderer.numbers)
	assert.Equal(t, []uint64{50}, summaries)
	require.Len(t, failures, 1)
	assert.Equal(t, monitor.StageResync, failures[0].stage)
	assert.ErrorIs(t, failures[0].err, resyncErr)
}

func TestStepRenderFailure(t *testing.T) {
	var (
		summaries []uint64
		failures  []failure
	)
	m, client, renderer := newMonitor(t, 20)
	m.WithListener(recordingListener(&summaries, &failures))
	renderer.err = io.ErrClosedPipe

	client.EXPECT().BlockByNumber(gomock.Any(), uint64(7)).Return(validBlock(), nil)

	state := m.Step(context.Background(), monitor.State{Cycle: 1, Block: 7})

	assert.Equal(t, uint64(8), state.Block)
	assert.Equal(t, []uint64{7}, summaries)
	require.Len(t, failures, 1)
	assert.Equal(t, monitor.StageRender, failures[0].stage)
}

func TestRunStopsOnCancel(t *testing.T) {
	m, client, _ := newMonitor(t, 20)

	ctx, cancel := context.WithCancel(context.Background())
	m.WithListener(&monitor.SelectiveListener{
		OnSummaryCb: func(*stats.Summary) { cancel() },
	})

	client.EXPECT().BlockNumber(gomock.Any()).Return(uint64(1), nil)
	client.EXPECT().BlockByNumber(gomock.Any(), uint64(1)).Return(validBlock(), nil)
	client.EXPECT().Close()

	require.NoError(t, m.Run(ctx))
}
