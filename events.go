package grove

// ListenerID identifies a registered listener for later removal.
type ListenerID uint32

type listenerEntry[T any] struct {
	id ListenerID
	fn func(T)
}

// Emitter is a synchronous multi-listener notifier. The zero value is ready
// to use. Emit works on a snapshot of the listener list, so listeners may add
// or remove listeners (including themselves) while it runs.
type Emitter[T any] struct {
	entries []listenerEntry[T]
	nextID  ListenerID

	// onCount, when set, observes every change in the number of listeners.
	onCount func(delta int)
}

// AddListener registers fn and returns an id for RemoveListener.
func (e *Emitter[T]) AddListener(fn func(T)) ListenerID {
	if fn == nil {
		panic("grove: AddListener: nil listener")
	}
	e.nextID++
	e.entries = append(e.entries, listenerEntry[T]{id: e.nextID, fn: fn})
	if e.onCount != nil {
		e.onCount(1)
	}
	return e.nextID
}

// RemoveListener unregisters the listener with the given id. It reports
// whether a listener was removed.
func (e *Emitter[T]) RemoveListener(id ListenerID) bool {
	for i, entry := range e.entries {
		if entry.id != id {
			continue
		}
		// Copy instead of shifting in place: an in-flight Emit still holds
		// the old backing array.
		next := make([]listenerEntry[T], 0, len(e.entries)-1)
		next = append(next, e.entries[:i]...)
		e.entries = append(next, e.entries[i+1:]...)
		if e.onCount != nil {
			e.onCount(-1)
		}
		return true
	}
	return false
}

// NumListeners returns the number of registered listeners.
func (e *Emitter[T]) NumListeners() int {
	return len(e.entries)
}

// HasListeners reports whether at least one listener is registered.
func (e *Emitter[T]) HasListeners() bool {
	return len(e.entries) > 0
}

// Emit calls every listener registered at the time of the call, in
// registration order.
func (e *Emitter[T]) Emit(v T) {
	if len(e.entries) == 0 {
		return
	}
	for _, entry := range e.entries {
		entry.fn(v)
	}
}

func (e *Emitter[T]) removeAll() {
	n := len(e.entries)
	e.entries = nil
	if n > 0 && e.onCount != nil {
		e.onCount(-n)
	}
}

// ChildEvent describes an edge being added or removed.
type ChildEvent struct {
	Parent *Node
	Child  *Node
	Index  int // index of Child in Parent's children at the time of the event
}

// ReorderEvent describes children changing position without being added or
// removed. Every index outside [MinIndex, MaxIndex] kept its child.
type ReorderEvent struct {
	Parent   *Node
	MinIndex int
	MaxIndex int
}

// BoundsChange is delivered to bounds listeners after a recomputation moved
// a cached bounds value by more than the notification epsilon.
type BoundsChange struct {
	Node *Node
	Kind BoundsKind
	Old  Bounds
	New  Bounds
}
