package testutil

import "time"

// MockInitProvider mock an init provider
type MockInitProvider struct {
	Start      time.Time
	CurrentSeq *uint64
}

// StartTime produces the run start time
func (m *MockInitProvider) StartTime() time.Time {
	return m.Start
}

// NextSequence provides next sequence
func (m *MockInitProvider) NextSequence() uint64 {
	if m.CurrentSeq == nil {
		return 1
	}
	return *m.CurrentSeq
}

// MockedInitProvider returns an InitProvider for testing
func MockedInitProvider(start time.Time) *MockInitProvider {
	return &MockInitProvider{
		Start: start,
	}
}
