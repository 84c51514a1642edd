package logsink

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

var (
	// ErrNilListener is returned when registering a nil listener.
	ErrNilListener = errors.New("logsink: nil listener")
	// ErrNotRegistered is returned when unregistering a listener that is no
	// longer attached to its hub.
	ErrNotRegistered = errors.New("logsink: listener not registered")
)

// Hub keeps the set of listeners attached to one logging context. It is safe
// for concurrent use; the zero value is not usable, call NewHub.
type Hub struct {
	mu            sync.RWMutex
	registrations []*Registration
}

// Registration is the handle returned by Register.
type Registration struct {
	ID       uuid.UUID
	hub      *Hub
	listener Listener
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Register attaches l to the hub at the lowest severity threshold: l sees
// every entry regardless of level.
func (h *Hub) Register(l Listener) (*Registration, error) {
	if l == nil {
		return nil, ErrNilListener
	}
	reg := &Registration{
		ID:       uuid.New(),
		hub:      h,
		listener: l,
	}
	h.mu.Lock()
	h.registrations = append(h.registrations, reg)
	h.mu.Unlock()
	return reg, nil
}

// Unregister detaches the listener. Calling it twice returns ErrNotRegistered.
func (r *Registration) Unregister() error {
	if r == nil || r.hub == nil {
		return ErrNotRegistered
	}
	return r.hub.remove(r)
}

// Len returns the number of registered listeners.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.registrations)
}

func (h *Hub) remove(target *Registration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, reg := range h.registrations {
		if reg != target {
			continue
		}
		// copy-on-write so snapshots held by writers stay valid
		next := make([]*Registration, 0, len(h.registrations)-1)
		next = append(next, h.registrations[:i]...)
		next = append(next, h.registrations[i+1:]...)
		h.registrations = next
		return nil
	}
	return ErrNotRegistered
}

func (h *Hub) snapshot() []*Registration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.registrations
}

// Wrap returns a core that writes to base (when base is enabled for the
// entry's level) and forwards every entry to the hub's listeners.
func (h *Hub) Wrap(base zapcore.Core) zapcore.Core {
	if base == nil {
		base = zapcore.NewNopCore()
	}
	return &hubCore{base: base, hub: h}
}

type hubCore struct {
	base   zapcore.Core
	hub    *Hub
	fields []zapcore.Field
}

func (c *hubCore) Enabled(lvl zapcore.Level) bool {
	return c.base.Enabled(lvl) || c.hub.Len() > 0
}

func (c *hubCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &hubCore{
		base:   c.base.With(fields),
		hub:    c.hub,
		fields: merged,
	}
}

func (c *hubCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	// the base core keeps its own checks (level, sampling)
	ce = c.base.Check(ent, ce)
	if c.hub.Len() > 0 {
		ce = ce.AddCore(ent, fanout{c})
	}
	return ce
}

func (c *hubCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	var err error
	if c.base.Enabled(ent.Level) {
		err = c.base.Write(ent, fields)
	}
	c.dispatch(ent, fields)
	return err
}

func (c *hubCore) Sync() error {
	return c.base.Sync()
}

func (c *hubCore) dispatch(ent zapcore.Entry, fields []zapcore.Field) {
	regs := c.hub.snapshot()
	if len(regs) == 0 {
		return
	}
	all := fields
	if len(c.fields) > 0 {
		all = make([]zapcore.Field, 0, len(c.fields)+len(fields))
		all = append(all, c.fields...)
		all = append(all, fields...)
	}
	for _, reg := range regs {
		reg.listener.Log(ent, all)
	}
}

// fanout is the listener-only half of a hubCore, added to checked entries
// next to whatever the base core contributed.
type fanout struct {
	*hubCore
}

func (f fanout) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	f.dispatch(ent, fields)
	return nil
}

func (f fanout) Sync() error {
	return nil
}
