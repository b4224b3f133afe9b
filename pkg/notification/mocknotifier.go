package notification

import (
	"context"
	"sync"
)

// MockNotice records one delivered notice
type MockNotice struct {
	Type NoticeType
	To   string
	Data map[string]string
}

// MockNotifier records notices for tests instead of sending them
type MockNotifier struct {
	mu      sync.Mutex
	Notices []MockNotice
	Err     error // When set, Notify returns this error
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify implements Notifier
func (m *MockNotifier) Notify(ctx context.Context, noticeType NoticeType, to string, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Notices = append(m.Notices, MockNotice{Type: noticeType, To: to, Data: data})
	return nil
}

// Sent returns the recorded notices
func (m *MockNotifier) Sent() []MockNotice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockNotice(nil), m.Notices...)
}
