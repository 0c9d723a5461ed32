package tools

import "github.com/example/lineprobe/internal/geom"

// Command is a typed request from the presentation layer. The set is closed;
// hosts dispatch these through Manager.Dispatch.
type Command interface {
	command()
}

// RemovePoint removes a SelectTool point.
type RemovePoint struct{ Index int }

// RemoveLine removes a DrawTool line.
type RemoveLine struct{ Index int }

// UpdateLineColor recolours one DrawTool line.
type UpdateLineColor struct {
	Index int
	Color geom.Color
}

// ClearTool clears all data of a tool.
type ClearTool struct{ ToolID string }

// UpdateSetting changes one tool setting.
type UpdateSetting struct {
	ToolID string
	Key    string
	Value  any
}

// UndoTool undoes the last action of ToolID, or of the active tool when empty.
type UndoTool struct{ ToolID string }

// RedoTool redoes the next action of ToolID, or of the active tool when empty.
type RedoTool struct{ ToolID string }

// ActivateTool switches the active tool.
type ActivateTool struct{ ToolID string }

// DeactivateAll leaves no tool active.
type DeactivateAll struct{}

// ApplyCrop commits the pending crop. It needs the working image, so the
// canvas session handles it rather than the manager.
type ApplyCrop struct{}

func (RemovePoint) command()     {}
func (RemoveLine) command()      {}
func (UpdateLineColor) command() {}
func (ClearTool) command()       {}
func (UpdateSetting) command()   {}
func (UndoTool) command()        {}
func (RedoTool) command()        {}
func (ActivateTool) command()    {}
func (DeactivateAll) command()   {}
func (ApplyCrop) command()       {}
