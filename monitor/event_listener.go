package monitor

import "github.com/NethermindEth/blockstats/stats"

// Stage names the step of a polling cycle that failed.
type Stage string

const (
	StageResync    Stage = "resync"
	StageFetch     Stage = "fetch"
	StageSummarize Stage = "summarize"
	StageRender    Stage = "render"
)

type EventListener interface {
	OnSummary(s *stats.Summary)
	OnFailure(stage Stage, err error)
}

type SelectiveListener struct {
	OnSummaryCb func(s *stats.Summary)
	OnFailureCb func(stage Stage, err error)
}

func (l *SelectiveListener) OnSummary(s *stats.Summary) {
	if l.OnSummaryCb != nil {
		l.OnSummaryCb(s)
	}
}

func (l *SelectiveListener) OnFailure(stage Stage, err error) {
	if l.OnFailureCb != nil {
		l.OnFailureCb(stage, err)
	}
}
