package workflow

import (
	"context"
	"fmt"

	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/service"
)

// Runner drives a Controller synchronously for non-interactive use. Each
// call blocks until the server replies.
type Runner struct {
	ctrl      *Controller
	extractor service.Extractor
	journal   service.Journal
}

// NewRunner returns a runner around a fresh controller. journal may be nil.
func NewRunner(extractor service.Extractor, journal service.Journal) *Runner {
	return &Runner{
		ctrl:      New(),
		extractor: extractor,
		journal:   journal,
	}
}

// Controller exposes the underlying state machine.
func (r *Runner) Controller() *Controller {
	return r.ctrl
}

// Analyze runs one analysis of doc. A server failure is returned and also
// kept as the controller's last error.
func (r *Runner) Analyze(ctx context.Context, doc model.Document) error {
	token, err := r.ctrl.TryBeginAnalysis(doc)
	if err != nil {
		return err
	}

	result, err := r.extractor.Analyze(ctx, doc)
	RecordBestEffort(ctx, r.journal, AnalysisEntry(doc, result, err))

	if err != nil {
		if stateErr := r.ctrl.AnalysisFailed(token, err); stateErr != nil {
			return fmt.Errorf("failed to record analysis failure: %w", stateErr)
		}
		return err
	}

	return r.ctrl.AnalysisSucceeded(token, result)
}

// Commit requests, confirms and sends the commit in one step. Callers ask
// the operator for confirmation before calling it.
func (r *Runner) Commit(ctx context.Context) (*model.CommitOutcome, error) {
	if err := r.ctrl.RequestCommit(); err != nil {
		return nil, err
	}

	result, token, err := r.ctrl.ConfirmCommit()
	if err != nil {
		return nil, err
	}

	outcome, err := r.extractor.Commit(ctx, result)
	RecordBestEffort(ctx, r.journal, CommitEntry(r.ctrl.Document(), result, outcome, err))

	if err != nil {
		if stateErr := r.ctrl.CommitFailed(token, err); stateErr != nil {
			return nil, fmt.Errorf("failed to record commit failure: %w", stateErr)
		}
		return nil, err
	}

	if err := r.ctrl.CommitSucceeded(token, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}
