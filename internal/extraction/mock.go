package extraction

import (
	"context"
	"sync"

	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/service"
)

// MockExtractor is a test implementation of service.Extractor. It returns
// canned replies and counts calls.
type MockExtractor struct {
	AnalyzeResult *model.ExtractionResult
	AnalyzeErr    error
	CommitOutcome *model.CommitOutcome
	CommitErr     error

	analyzed  []model.Document
	committed []*model.ExtractionResult
	mu        sync.Mutex
}

var _ service.Extractor = (*MockExtractor)(nil)

// NewMockExtractor returns a mock whose commits succeed.
func NewMockExtractor(result *model.ExtractionResult) *MockExtractor {
	return &MockExtractor{
		AnalyzeResult: result,
		CommitOutcome: &model.CommitOutcome{Success: true, Message: "Data saved successfully"},
	}
}

// Analyze records doc and returns the canned result.
func (m *MockExtractor) Analyze(_ context.Context, doc model.Document) (*model.ExtractionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.analyzed = append(m.analyzed, doc)
	if m.AnalyzeErr != nil {
		return nil, m.AnalyzeErr
	}
	return m.AnalyzeResult, nil
}

// Commit records result and returns the canned outcome.
func (m *MockExtractor) Commit(_ context.Context, result *model.ExtractionResult) (*model.CommitOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.committed = append(m.committed, result)
	if m.CommitErr != nil {
		return nil, m.CommitErr
	}
	return m.CommitOutcome, nil
}

// AnalyzeCalls returns how many analyses were requested.
func (m *MockExtractor) AnalyzeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.analyzed)
}

// CommitCalls returns how many commits were requested.
func (m *MockExtractor) CommitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

// Committed returns the results passed to Commit.
func (m *MockExtractor) Committed() []*model.ExtractionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.ExtractionResult(nil), m.committed...)
}
