package sim

import (
	"sync"
	"time"
)

// MockTime provides a controllable time source for testing
type MockTime struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockTime creates a mock time source starting at start
func NewMockTime(start time.Time) *MockTime {
	return &MockTime{currentTime: start}
}

// Now returns the current mocked time
func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Advance moves the mocked time forward by d
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
