// Package interact turns pointer events into drag sessions on named
// handles drawn on the canvas.
package interact

// Callbacks connect a Handler to the thing being dragged. OnDragStart is
// the hit test: it returns the grabbed handle, or ok=false to ignore the
// press.
type Callbacks struct {
	OnDragStart func(x, y float64) (handle string, ok bool)
	OnDrag      func(x, y float64)
	OnDragEnd   func()
}

// Session is a snapshot of the drag state.
type Session struct {
	Active bool
	Handle string
	X, Y   float64
}

// Handler is the Idle/Dragging state machine. Every exit from Dragging
// fires OnDragEnd exactly once.
type Handler struct {
	cb      Callbacks
	session Session
}

func NewHandler(cb Callbacks) *Handler {
	return &Handler{cb: cb}
}

func (h *Handler) Session() Session { return h.session }

func (h *Handler) Dragging() bool { return h.session.Active }

func (h *Handler) PointerDown(x, y float64) {
	if h.session.Active || h.cb.OnDragStart == nil {
		return
	}
	handle, ok := h.cb.OnDragStart(x, y)
	if !ok {
		return
	}
	h.session = Session{Active: true, Handle: handle, X: x, Y: y}
}

func (h *Handler) PointerMove(x, y float64) {
	if !h.session.Active {
		return
	}
	h.session.X, h.session.Y = x, y
	if h.cb.OnDrag != nil {
		h.cb.OnDrag(x, y)
	}
}

func (h *Handler) PointerUp()     { h.end() }
func (h *Handler) PointerLeave()  { h.end() }
func (h *Handler) PointerCancel() { h.end() }

// Handle dispatches a bus event.
func (h *Handler) Handle(e Event) {
	switch e.Kind {
	case PointerDown:
		h.PointerDown(e.X, e.Y)
	case PointerMove:
		h.PointerMove(e.X, e.Y)
	case PointerUp:
		h.PointerUp()
	case PointerLeave:
		h.PointerLeave()
	case PointerCancel:
		h.PointerCancel()
	}
}

func (h *Handler) end() {
	if !h.session.Active {
		return
	}
	h.session = Session{}
	if h.cb.OnDragEnd != nil {
		h.cb.OnDragEnd()
	}
}

// Bind subscribes a new Handler to src. The returned cleanup unsubscribes
// and ends any drag in progress; it may be called more than once.
func Bind(src Source, cb Callbacks) (*Handler, func()) {
	h := NewHandler(cb)
	if src == nil {
		return h, h.end
	}
	sub := src.Subscribe(h.Handle)
	done := false
	return h, func() {
		if done {
			return
		}
		done = true
		sub.Remove()
		h.end()
	}
}
