package monitor

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/NethermindEth/blockstats/eth"
	"github.com/NethermindEth/blockstats/render"
	"github.com/NethermindEth/blockstats/service"
	"github.com/NethermindEth/blockstats/stats"
	"github.com/NethermindEth/blockstats/utils"
)

const (
	DefaultPollInterval = 12 * time.Second
	DefaultResyncEvery  = 20
)

type Config struct {
	PollInterval time.Duration
	// ResyncEvery is the number of cycles between two head lookups.
	ResyncEvery uint64
	Schedule    stats.BlobSchedule
}

// State is carried from one cycle to the next.
type State struct {
	Cycle uint64
	// Block is the number of the next block to report.
	Block uint64
}

// Monitor follows the chain head one block at a time and renders a report for
// every block it manages to summarise.
type Monitor struct {
	client   eth.Client
	cfg      Config
	renderer render.Renderer
	out      io.Writer
	listener EventListener
	log      utils.SimpleLogger
	now      func() time.Time
}

var _ service.Service = (*Monitor)(nil)

func New(client eth.Client, cfg Config, renderer render.Renderer, out io.Writer, log utils.SimpleLogger) *Monitor {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ResyncEvery == 0 {
		cfg.ResyncEvery = DefaultResyncEvery
	}
	return &Monitor{
		client:   client,
		cfg:      cfg,
		renderer: renderer,
		out:      out,
		listener: &SelectiveListener{},
		log:      log,
		now:      time.Now,
	}
}

func (m *Monitor) WithListener(listener EventListener) *Monitor {
	m.listener = listener
	return m
}

func (m *Monitor) Run(ctx context.Context) error {
	defer m.client.Close()

	var state State
	for {
		state = m.Step(ctx, state)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(m.cfg.PollInterval):
		}
	}
}

// Step runs a single polling cycle and returns the state for the next one.
func (m *Monitor) Step(ctx context.Context, state State) State {
	resync := state.Cycle%m.cfg.ResyncEvery == 0
	state.Cycle++

	if resync {
		head, err := m.client.BlockNumber(ctx)
		if err != nil {
			m.log.Warnw("Failed to fetch the latest block number", "block", state.Block, "err", err)
			m.listener.OnFailure(StageResync, err)
		} else {
			if head != state.Block {
				m.log.Debugw("Resynced to chain head", "from", state.Block, "to", head)
			}
			state.Block = head
		}
	}

	block, err := m.client.BlockByNumber(ctx, state.Block)
	if err != nil {
		if errors.Is(err, eth.ErrBlockNotFound) {
			m.log.Debugw("Block not available yet", "block", state.Block)
		} else {
			m.log.Warnw("Failed to fetch block", "block", state.Block, "err", err)
		}
		m.listener.OnFailure(StageFetch, err)
		return state
	}

	summary, err := stats.Summarize(block, state.Block, uint64(m.now().Unix()), m.cfg.Schedule)
	if err != nil {
		m.log.Warnw("Failed to summarise block", "block", state.Block, "err", err)
		m.listener.OnFailure(StageSummarize, err)
		return state
	}

	if err = m.renderer.Render(m.out, summary); err != nil {
		m.log.Errorw("Failed to render block report", "block", state.Block, "err", err)
		m.listener.OnFailure(StageRender, err)
	}
	m.listener.OnSummary(summary)
	state.Block++
	return state
}
