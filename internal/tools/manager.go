package tools

import (
	"fmt"
	"image"
)

// Manager owns the registered tools, keeps at most one of them active and
// routes pointer events to it.
type Manager struct {
	tools    []Tool
	byID     map[string]Tool
	active   Tool
	renderer Renderer

	redrawPending bool
	schedule      func()
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithScheduler registers fn to be called when a redraw becomes pending.
// The host is expected to call RenderAllOverlays at its next paint.
func WithScheduler(fn func()) ManagerOption { return func(m *Manager) { m.schedule = fn } }

// WithTools registers tools in order.
func WithTools(tools ...Tool) ManagerOption {
	return func(m *Manager) {
		for _, t := range tools {
			if err := m.Register(t); err != nil {
				panic(err)
			}
		}
	}
}

// NewManager creates a manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{byID: map[string]Tool{}}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register adds t after the already registered tools.
func (m *Manager) Register(t Tool) error {
	if _, dup := m.byID[t.ID()]; dup {
		return fmt.Errorf("tool %q already registered", t.ID())
	}
	m.tools = append(m.tools, t)
	m.byID[t.ID()] = t
	return nil
}

// Tools returns the tools in registration order.
func (m *Manager) Tools() []Tool {
	return append([]Tool(nil), m.tools...)
}

// Tool looks up a tool by id.
func (m *Manager) Tool(id string) (Tool, bool) {
	t, ok := m.byID[id]
	return t, ok
}

// Active returns the active tool or nil.
func (m *Manager) Active() Tool { return m.active }

// ActiveID returns the active tool's id or "".
func (m *Manager) ActiveID() string {
	if m.active == nil {
		return ""
	}
	return m.active.ID()
}

// ActivateTool deactivates the current tool and activates id. It reports
// false and changes nothing when id is unknown.
func (m *Manager) ActivateTool(id string) bool {
	t, ok := m.byID[id]
	if !ok {
		return false
	}
	if m.active != nil {
		m.active.Deactivate()
	}
	t.Activate()
	m.active = t
	m.RequestRedraw()
	return true
}

// DeactivateAll leaves no tool active. In-flight gestures are abandoned.
func (m *Manager) DeactivateAll() {
	if m.active == nil {
		return
	}
	m.active.Deactivate()
	m.active = nil
	m.RequestRedraw()
}

// HandleMouseEvent forwards ev to the active tool. It reports false when no
// tool is active and the event was dropped.
func (m *Manager) HandleMouseEvent(ev Event) bool {
	if m.active == nil {
		return false
	}
	switch ev.Kind {
	case MouseDown:
		m.active.MouseDown(ev)
	case MouseMove:
		m.active.MouseMove(ev)
	case MouseUp:
		m.active.MouseUp(ev)
	default:
		return false
	}
	m.RequestRedraw()
	return true
}

// RequestRedraw marks the overlay dirty. Repeated requests before the next
// RenderAllOverlays collapse into one.
func (m *Manager) RequestRedraw() {
	if m.redrawPending {
		return
	}
	m.redrawPending = true
	if m.schedule != nil {
		m.schedule()
	}
}

// RedrawPending reports whether a redraw has been requested since the last
// render.
func (m *Manager) RedrawPending() bool { return m.redrawPending }

// RenderAllOverlays runs one overlay pass over every tool. present receives
// the surface for the duration of the call.
func (m *Manager) RenderAllOverlays(view ViewState, present func(*image.RGBA)) bool {
	m.redrawPending = false
	return m.renderer.Render(m.tools, view, present)
}

// Renderer exposes the overlay renderer for diagnostics.
func (m *Manager) Renderer() *Renderer { return &m.renderer }

// ExportAllData returns the data of every tool that has any, keyed by id.
func (m *Manager) ExportAllData() map[string]ToolData {
	out := map[string]ToolData{}
	for _, t := range m.tools {
		if t.HasData() {
			out[t.ID()] = t.Data()
		}
	}
	return out
}

// ClearAllData clears every tool.
func (m *Manager) ClearAllData() {
	for _, t := range m.tools {
		t.Clear()
	}
	m.RequestRedraw()
}

// ResetAll drops data and history of every tool.
func (m *Manager) ResetAll() {
	for _, t := range m.tools {
		t.Reset()
	}
	m.RequestRedraw()
}

// Undo undoes on the active tool.
func (m *Manager) Undo() bool { return m.undoRedo("", true) }

// Redo redoes on the active tool.
func (m *Manager) Redo() bool { return m.undoRedo("", false) }

func (m *Manager) undoRedo(id string, undo bool) bool {
	t := m.active
	if id != "" {
		t = m.byID[id]
	}
	u, ok := t.(Undoer)
	if !ok {
		return false
	}
	var changed bool
	if undo {
		changed = u.Undo()
	} else {
		changed = u.Redo()
	}
	if changed {
		m.RequestRedraw()
	}
	return changed
}

func (m *Manager) lookup(id string) (Tool, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return t, nil
}

// Dispatch applies cmd. Successful commands request a redraw.
func (m *Manager) Dispatch(cmd Command) error {
	if err := m.apply(cmd); err != nil {
		return err
	}
	m.RequestRedraw()
	return nil
}

func (m *Manager) apply(cmd Command) error {
	switch c := cmd.(type) {
	case RemovePoint:
		t, err := m.lookup(SelectID)
		if err != nil {
			return err
		}
		r, ok := t.(interface{ RemovePoint(int) bool })
		if !ok {
			return fmt.Errorf("%w: %s cannot remove points", ErrUnsupportedCommand, t.ID())
		}
		if !r.RemovePoint(c.Index) {
			return fmt.Errorf("%w: point %d", ErrIndexOutOfRange, c.Index)
		}
	case RemoveLine:
		t, err := m.lookup(DrawID)
		if err != nil {
			return err
		}
		r, ok := t.(interface{ RemoveLine(int) bool })
		if !ok {
			return fmt.Errorf("%w: %s cannot remove lines", ErrUnsupportedCommand, t.ID())
		}
		if !r.RemoveLine(c.Index) {
			return fmt.Errorf("%w: line %d", ErrIndexOutOfRange, c.Index)
		}
	case UpdateLineColor:
		t, err := m.lookup(DrawID)
		if err != nil {
			return err
		}
		r, ok := t.(*DrawTool)
		if !ok {
			return fmt.Errorf("%w: %s cannot recolour lines", ErrUnsupportedCommand, t.ID())
		}
		if !r.UpdateLineColor(c.Index, c.Color) {
			return fmt.Errorf("%w: line %d", ErrIndexOutOfRange, c.Index)
		}
	case ClearTool:
		t, err := m.lookup(c.ToolID)
		if err != nil {
			return err
		}
		t.Clear()
	case UpdateSetting:
		t, err := m.lookup(c.ToolID)
		if err != nil {
			return err
		}
		s, ok := t.(Configurable)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownSetting, c.ToolID, c.Key)
		}
		return s.SetSetting(c.Key, c.Value)
	case UndoTool:
		if c.ToolID != "" {
			if _, err := m.lookup(c.ToolID); err != nil {
				return err
			}
		}
		m.undoRedo(c.ToolID, true)
	case RedoTool:
		if c.ToolID != "" {
			if _, err := m.lookup(c.ToolID); err != nil {
				return err
			}
		}
		m.undoRedo(c.ToolID, false)
	case ActivateTool:
		if !m.ActivateTool(c.ToolID) {
			return fmt.Errorf("%w: %q", ErrUnknownTool, c.ToolID)
		}
	case DeactivateAll:
		m.DeactivateAll()
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedCommand, cmd)
	}
	return nil
}
