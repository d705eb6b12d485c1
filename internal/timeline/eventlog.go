package timeline

import "github.com/alexanderramin/canteiro/internal/domain"

// EventLog keeps a project's history newest first. A positive max caps
// its length by dropping the oldest entries; zero means unbounded.
type EventLog struct {
	entries []domain.TimelineEvent
	max     int
}

// NewEventLog takes existing entries newest first.
func NewEventLog(entries []domain.TimelineEvent, maxEntries int) *EventLog {
	l := &EventLog{
		entries: append([]domain.TimelineEvent(nil), entries...),
		max:     maxEntries,
	}
	l.evict()
	return l
}

// Append prepends e. It cannot fail.
func (l *EventLog) Append(e domain.TimelineEvent) {
	l.entries = append([]domain.TimelineEvent{e}, l.entries...)
	l.evict()
}

func (l *EventLog) evict() {
	if l.max > 0 && len(l.entries) > l.max {
		l.entries = l.entries[:l.max:l.max]
	}
}

// List returns a newest-first copy.
func (l *EventLog) List() []domain.TimelineEvent {
	return append([]domain.TimelineEvent(nil), l.entries...)
}

func (l *EventLog) Len() int {
	return len(l.entries)
}
