package interact

// EventKind is the pointer event type.
type EventKind uint8

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	// PointerLeave fires when the pointer exits the surface.
	PointerLeave
	// PointerCancel fires when the host loses pointer capture.
	PointerCancel
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

// Event is a pointer event in logical surface coordinates.
type Event struct {
	Kind EventKind
	X, Y float64
}

type Listener func(Event)

// Source delivers pointer events to subscribers.
type Source interface {
	Subscribe(fn Listener) Subscription
}

// Subscription removes a registered listener.
type Subscription struct {
	id  uint32
	bus *Bus
}

// Remove unregisters the listener. Calling it more than once is harmless.
func (s Subscription) Remove() {
	if s.bus == nil {
		return
	}
	s.bus.remove(s.id)
}

type listener struct {
	id uint32
	fn Listener
}

// Bus is the in-process Source hosts publish pointer events to. It is not
// safe for concurrent use; hosts publish from their event loop.
type Bus struct {
	listeners []listener
	nextID    uint32
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) Subscribe(fn Listener) Subscription {
	if fn == nil {
		return Subscription{}
	}
	b.nextID++
	b.listeners = append(b.listeners, listener{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID, bus: b}
}

// Publish delivers e to every listener registered when it was called.
func (b *Bus) Publish(e Event) {
	ls := make([]listener, len(b.listeners))
	copy(ls, b.listeners)
	for _, l := range ls {
		l.fn(e)
	}
}

func (b *Bus) Len() int { return len(b.listeners) }

func (b *Bus) remove(id uint32) {
	for i := range b.listeners {
		if b.listeners[i].id == id {
			copy(b.listeners[i:], b.listeners[i+1:])
			b.listeners[len(b.listeners)-1] = listener{}
			b.listeners = b.listeners[:len(b.listeners)-1]
			return
		}
	}
}
