// Package notification keeps an in-memory ring of recent events for the HTTP
// API and the monitor: executed orders, generated signals and system alerts.
package notification

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hootan504/bingx-bot/types"
)

// Priority defines the priority level of a notification
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Type defines the kind of notification
type Type string

const (
	TypeSignal      Type = "signal_generated"
	TypeOrder       Type = "order_executed"
	TypeSystemAlert Type = "system_alert"
)

// Notification is one event surfaced to the dashboard.
type Notification struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Priority  Priority               `json:"priority"`
	Timestamp time.Time              `json:"timestamp"`
	Read      bool                   `json:"read"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Manager holds the most recent notifications, newest first.
type Manager struct {
	notifications []Notification
	max           int
	mutex         sync.RWMutex
}

// NewManager creates a manager retaining at most max notifications.
func NewManager(max int) *Manager {
	return &Manager{max: max}
}

// Add prepends a notification, trimming the oldest beyond the retention cap.
func (m *Manager) Add(n Notification) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	m.notifications = append([]Notification{n}, m.notifications...)
	if len(m.notifications) > m.max {
		m.notifications = m.notifications[:m.max]
	}
}

// All returns a copy of all notifications, newest first.
func (m *Manager) All() []Notification {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// ByType returns notifications of one type, newest first.
func (m *Manager) ByType(t Type) []Notification {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var out []Notification
	for _, n := range m.notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// MarkAsRead marks a notification as read and reports whether it was found.
func (m *Manager) MarkAsRead(id string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Read = true
			return true
		}
	}
	return false
}

// Clear removes all notifications.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.notifications = nil
}

// NewSignal builds a notification for a generated trading signal.
func NewSignal(symbol string, signal types.Signal, detail string) Notification {
	return Notification{
		ID:       generateID(),
		Type:     TypeSignal,
		Title:    symbol + " Trading Signal",
		Message:  fmt.Sprintf("Generated %s signal for %s: %s", signal, symbol, detail),
		Priority: PriorityMedium,
		Metadata: map[string]interface{}{"symbol": symbol, "signal": string(signal)},
	}
}

// NewOrder builds a notification for a submitted order.
func NewOrder(intent types.TradeIntent, outcome types.OrderOutcome) Notification {
	priority := PriorityHigh
	msg := fmt.Sprintf("%s %s %v %s", intent.Side, intent.Type, intent.Amount, intent.Symbol)
	if outcome.DryRun {
		msg += " (dry run)"
		priority = PriorityLow
	}
	if !outcome.OK {
		msg += ": failed: " + outcome.Error
	}
	return Notification{
		ID:       generateID(),
		Type:     TypeOrder,
		Title:    intent.Symbol + " Order",
		Message:  msg,
		Priority: priority,
		Metadata: map[string]interface{}{
			"symbol":   intent.Symbol,
			"side":     string(intent.Side),
			"quantity": intent.Amount,
			"ok":       outcome.OK,
		},
	}
}

// NewAlert builds a system alert notification.
func NewAlert(title, message string) Notification {
	return Notification{
		ID:       generateID(),
		Type:     TypeSystemAlert,
		Title:    title,
		Message:  message,
		Priority: PriorityHigh,
	}
}

var idSeq atomic.Int64

func generateID() string {
	return fmt.Sprintf("n-%d-%d", time.Now().UnixMilli(), idSeq.Add(1))
}
