// Package workflow owns the review state machine: one pending extraction
// result, the analysis and commit requests in flight, and the commit gate.
//
// The controller is not safe for concurrent use. It is meant to be driven
// from a single event loop; network calls run elsewhere and report back
// through the *Succeeded/*Failed methods with the token they were issued.
package workflow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/validation"
)

// State is a step of the review workflow.
type State int

const (
	// StateIdle means no analysis is pending.
	StateIdle State = iota
	// StateAnalyzing means an analysis request is outstanding.
	StateAnalyzing
	// StateReviewing means a result is pending the operator's decision.
	StateReviewing
	// StateConfirming means the operator asked to commit and must confirm.
	StateConfirming
	// StateCommitting means a commit request is outstanding.
	StateCommitting
	// StateCommitted means the pending result was saved.
	StateCommitted
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAnalyzing:
		return "Analyzing"
	case StateReviewing:
		return "Reviewing"
	case StateConfirming:
		return "Confirming"
	case StateCommitting:
		return "Committing"
	case StateCommitted:
		return "Committed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

var (
	// ErrAnalysisInFlight rejects a second analysis while one is outstanding.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	// ErrNoPendingResult rejects a commit with nothing to commit.
	ErrNoPendingResult = errors.New("no analysis result to commit")
	// ErrCommitBlocked rejects a commit the validation report forbids.
	ErrCommitBlocked = errors.New("commit blocked by validation")
	// ErrCommitInFlight rejects a commit while one is outstanding.
	ErrCommitInFlight = errors.New("commit already in progress")
	// ErrAlreadyCommitted rejects a second commit of the same result.
	ErrAlreadyCommitted = errors.New("result already committed")
	// ErrNotConfirming rejects a confirmation nobody asked for.
	ErrNotConfirming = errors.New("no commit awaiting confirmation")
	// ErrStaleResponse marks a reply to a request that has been superseded.
	ErrStaleResponse = errors.New("stale response")
)

// Token identifies one issued request. Replies carrying an older token are
// discarded.
type Token uint64

// Commit control labels.
const (
	LabelCommit     = "Save to database"
	LabelConfirm    = "Confirm save"
	LabelCommitting = "Saving..."
	LabelCommitted  = "Saved"
	LabelBlocked    = "Already on file"
)

// Controller is the single owner of the pending extraction result.
type Controller struct {
	lastErr        error
	result         *model.ExtractionResult
	document       model.Document
	interpretation validation.Interpretation
	status         string
	seq            Token
	analysisToken  Token
	commitToken    Token
	// inFlightCommit is the token of the save request still on the wire. It
	// survives BeginAnalysis and is cleared only by that request's reply.
	inFlightCommit Token
	state          State
}

// New returns a controller in the idle state.
func New() *Controller {
	return &Controller{state: StateIdle}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Result returns the pending result, or nil outside reviewing/committing.
func (c *Controller) Result() *model.ExtractionResult {
	return c.result
}

// Document returns the document of the current or last analysis.
func (c *Controller) Document() model.Document {
	return c.document
}

// Interpretation returns the reading of the pending result's validation report.
func (c *Controller) Interpretation() validation.Interpretation {
	return c.interpretation
}

// LastError returns the failure shown to the operator, if any.
func (c *Controller) LastError() error {
	return c.lastErr
}

// Status returns the last confirmation message from the server.
func (c *Controller) Status() string {
	return c.status
}

// CanAnalyze reports whether a new analysis may be started without
// superseding an outstanding one.
func (c *Controller) CanAnalyze() bool {
	return c.state != StateAnalyzing
}

// CanCommit reports whether the commit action is enabled. The validation
// gate is the only way to enable it.
func (c *Controller) CanCommit() bool {
	if c.result == nil || c.interpretation.BlocksCommit || c.inFlightCommit != 0 {
		return false
	}
	return c.state == StateReviewing || c.state == StateConfirming
}

// CommitInFlight reports whether a save request has been sent and its reply
// has not arrived, including one issued for a superseded result.
func (c *Controller) CommitInFlight() bool {
	return c.inFlightCommit != 0
}

// CommitLabel returns the label of the commit control.
func (c *Controller) CommitLabel() string {
	switch {
	case c.state == StateCommitted:
		return LabelCommitted
	case c.state == StateCommitting, c.inFlightCommit != 0:
		return LabelCommitting
	case c.state == StateConfirming:
		return LabelConfirm
	case c.interpretation.BlocksCommit:
		return LabelBlocked
	default:
		return LabelCommit
	}
}

// BeginAnalysis starts a new analysis of doc from any state. The pending
// result is discarded and every earlier token becomes stale, so replies to
// requests issued before this call are ignored. An outstanding save still
// disables committing until its reply arrives.
func (c *Controller) BeginAnalysis(doc model.Document) Token {
	if c.state == StateAnalyzing || c.state == StateCommitting {
		slog.Debug("Superseding outstanding request",
			"state", c.state.String(),
			"file", doc.Name)
	}

	c.seq++
	c.analysisToken = c.seq
	c.commitToken = 0
	c.document = doc
	c.result = nil
	c.interpretation = validation.Interpretation{}
	c.lastErr = nil
	c.status = ""
	c.state = StateAnalyzing

	return c.analysisToken
}

// TryBeginAnalysis is BeginAnalysis for the analyze action, which is disabled
// while an analysis is outstanding.
func (c *Controller) TryBeginAnalysis(doc model.Document) (Token, error) {
	if !c.CanAnalyze() {
		return 0, ErrAnalysisInFlight
	}
	return c.BeginAnalysis(doc), nil
}

// AnalysisSucceeded stores result and moves to reviewing.
func (c *Controller) AnalysisSucceeded(token Token, result *model.ExtractionResult) error {
	if err := c.checkAnalysisToken(token); err != nil {
		return err
	}
	if result == nil {
		return c.AnalysisFailed(token, errors.New("empty analysis result"))
	}

	c.result = result
	c.interpretation = validation.Interpret(result)
	c.analysisToken = 0
	c.state = StateReviewing

	return nil
}

// AnalysisFailed records err and returns to idle.
func (c *Controller) AnalysisFailed(token Token, err error) error {
	if tokenErr := c.checkAnalysisToken(token); tokenErr != nil {
		return tokenErr
	}

	c.lastErr = err
	c.result = nil
	c.interpretation = validation.Interpretation{}
	c.analysisToken = 0
	c.state = StateIdle

	return nil
}

// RequestCommit asks for confirmation of the commit.
func (c *Controller) RequestCommit() error {
	if err := c.commitAllowed(); err != nil {
		return err
	}
	if c.state == StateConfirming {
		return nil
	}

	c.state = StateConfirming
	return nil
}

// CancelCommit dismisses the confirmation and returns to reviewing.
func (c *Controller) CancelCommit() error {
	if c.state != StateConfirming {
		return ErrNotConfirming
	}
	c.state = StateReviewing
	return nil
}

// ConfirmCommit moves to committing and returns the result to send along
// with the token its reply must carry. The commit action stays disabled
// until the reply arrives.
func (c *Controller) ConfirmCommit() (*model.ExtractionResult, Token, error) {
	if err := c.commitAllowed(); err != nil {
		return nil, 0, err
	}
	if c.state != StateConfirming {
		return nil, 0, ErrNotConfirming
	}

	c.seq++
	c.commitToken = c.seq
	c.inFlightCommit = c.seq
	c.lastErr = nil
	c.state = StateCommitting

	return c.result, c.commitToken, nil
}

// CommitSucceeded marks the pending result as saved. It cannot be committed
// again.
func (c *Controller) CommitSucceeded(token Token, outcome *model.CommitOutcome) error {
	c.releaseCommit(token)
	if err := c.checkCommitToken(token); err != nil {
		return err
	}

	if outcome != nil {
		c.status = outcome.Message
	}
	c.commitToken = 0
	c.state = StateCommitted

	return nil
}

// CommitFailed records err and returns to reviewing with the commit action
// enabled again.
func (c *Controller) CommitFailed(token Token, err error) error {
	c.releaseCommit(token)
	if tokenErr := c.checkCommitToken(token); tokenErr != nil {
		return tokenErr
	}

	c.lastErr = err
	c.commitToken = 0
	c.state = StateReviewing

	return nil
}

// ClearError hides the last failure.
func (c *Controller) ClearError() {
	c.lastErr = nil
}

func (c *Controller) commitAllowed() error {
	if c.inFlightCommit != 0 {
		return ErrCommitInFlight
	}
	switch c.state {
	case StateCommitting:
		return ErrCommitInFlight
	case StateCommitted:
		return ErrAlreadyCommitted
	case StateReviewing, StateConfirming:
	default:
		return ErrNoPendingResult
	}

	if c.result == nil {
		return ErrNoPendingResult
	}
	if c.interpretation.BlocksCommit {
		return ErrCommitBlocked
	}
	return nil
}

// releaseCommit clears the in-flight save once its own reply arrives, even
// when that reply is stale for the current result.
func (c *Controller) releaseCommit(token Token) {
	if token != 0 && token == c.inFlightCommit {
		c.inFlightCommit = 0
	}
}

func (c *Controller) checkAnalysisToken(token Token) error {
	if c.state != StateAnalyzing || token == 0 || token != c.analysisToken {
		slog.Debug("Discarding stale analysis reply", "token", token, "current", c.analysisToken)
		return ErrStaleResponse
	}
	return nil
}

func (c *Controller) checkCommitToken(token Token) error {
	if c.state != StateCommitting || token == 0 || token != c.commitToken {
		slog.Debug("Discarding stale commit reply", "token", token, "current", c.commitToken)
		return ErrStaleResponse
	}
	return nil
}
