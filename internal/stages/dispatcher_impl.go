package stages

import (
	"fmt"

	"cfwai/internal/model"
)

// stageDispatcher is the concrete dispatcher.Dispatcher implementation:
// each stage enqueues to the others only through EnqueueTo, never by
// importing each other's packages (Design Notes).
type stageDispatcher struct {
	decision *DecisionStage
	aging    *AgingStage
	download *DownloadStage
}

// NewDispatcher builds the cross-stage hand-off and wires it into all
// three stages. Call this once, after constructing the stages themselves.
func NewDispatcher(decision *DecisionStage, aging *AgingStage, download *DownloadStage) *stageDispatcher {
	d := &stageDispatcher{decision: decision, aging: aging, download: download}
	decision.SetDispatcher(d)
	aging.SetDispatcher(d)
	download.SetDispatcher(d)
	return d
}

// EnqueueTo implements dispatcher.Dispatcher.
func (d *stageDispatcher) EnqueueTo(stage model.Stage, item model.Item) error {
	switch stage {
	case model.StageDecision:
		return d.decision.Enqueue(item)
	case model.StageAging:
		return d.aging.Enqueue(item)
	case model.StageDownload:
		return d.download.Enqueue(item)
	default:
		return fmt.Errorf("dispatcher: unknown stage %q", stage)
	}
}
