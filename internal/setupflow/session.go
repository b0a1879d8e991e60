package setupflow

import "github.com/google/uuid"

// Session is the lifetime of one sequenced flow. It owns every subscription
// made on behalf of that flow, so closing it detaches the flow's pages from
// the orchestrator.
type Session struct {
	activityID uuid.UUID
	subs       []Subscription
	closed     bool
}

func newSession(activityID uuid.UUID) *Session {
	return &Session{activityID: activityID}
}

// ActivityID correlates telemetry for the flow.
func (s *Session) ActivityID() uuid.UUID {
	return s.activityID
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	return s.closed
}

// Track takes ownership of sub. Tracking on a closed session cancels
// immediately.
func (s *Session) Track(sub Subscription) {
	if sub == nil {
		return
	}
	if s.closed {
		sub.Cancel()
		return
	}
	s.subs = append(s.subs, sub)
}

// Once wraps fn so that it runs at most one time, and never after the session
// is closed.
func (s *Session) Once(fn func()) func() {
	fired := false
	return func() {
		if fired || s.closed {
			return
		}
		fired = true
		fn()
	}
}

// Close cancels every tracked subscription. Safe to call repeatedly.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
}
