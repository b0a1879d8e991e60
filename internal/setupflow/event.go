package setupflow

type (
	// Subscription detaches a handler from the event it was attached to.
	Subscription interface {
		Cancel()
	}

	// Event is a synchronous multicast signal. Handlers run on the emitting
	// goroutine in the order they subscribed.
	Event[T any] struct {
		nextID   int
		handlers []handler[T]
	}

	handler[T any] struct {
		id int
		fn func(T)
	}

	subscription[T any] struct {
		event *Event[T]
		id    int
	}

	// Signal is an event without a payload.
	Signal = Event[struct{}]
)

// Subscribe attaches fn and returns the handle that detaches it.
func (e *Event[T]) Subscribe(fn func(T)) Subscription {
	e.nextID++
	e.handlers = append(e.handlers, handler[T]{id: e.nextID, fn: fn})
	return &subscription[T]{event: e, id: e.nextID}
}

// Emit calls every attached handler with v.
func (e *Event[T]) Emit(v T) {
	handlers := make([]handler[T], len(e.handlers))
	copy(handlers, e.handlers)
	for _, h := range handlers {
		if e.attached(h.id) {
			h.fn(v)
		}
	}
}

// Len reports how many handlers are attached.
func (e *Event[T]) Len() int {
	return len(e.handlers)
}

func (e *Event[T]) attached(id int) bool {
	for _, h := range e.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}

func (e *Event[T]) remove(id int) {
	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
			return
		}
	}
}

func (s *subscription[T]) Cancel() {
	if s.event == nil {
		return
	}
	s.event.remove(s.id)
	s.event = nil
}

// Fire emits a payload-less signal.
func Fire(s *Signal) {
	s.Emit(struct{}{})
}

// OnSignal subscribes a payload-less handler.
func OnSignal(s *Signal, fn func()) Subscription {
	return s.Subscribe(func(struct{}) { fn() })
}
