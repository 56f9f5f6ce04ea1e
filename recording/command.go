package recording

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave         CommandType = iota // Save current state
	CmdRestore                         // Restore previous state
	CmdSetTransform                    // Set transformation matrix
	CmdSetOpacity                      // Multiply group opacity

	// Clipping commands
	CmdPushMask   // Clip by a mask path
	CmdBeginMatte // Start recording track matte content
	CmdEndMatte   // Finish matte content and clip by it
	CmdPopMask    // Drop the innermost mask or matte

	// Drawing commands
	CmdFillPath   // Fill a path
	CmdStrokePath // Stroke a path
	CmdDrawImage  // Draw an image asset
)

var commandTypeNames = [...]string{
	CmdSave:         "Save",
	CmdRestore:      "Restore",
	CmdSetTransform: "SetTransform",
	CmdSetOpacity:   "SetOpacity",
	CmdPushMask:     "PushMask",
	CmdBeginMatte:   "BeginMatte",
	CmdEndMatte:     "EndMatte",
	CmdPopMask:      "PopMask",
	CmdFillPath:     "FillPath",
	CmdStrokePath:   "StrokePath",
	CmdDrawImage:    "DrawImage",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	Type() CommandType
}

// PathRef is a reference to a path in the resource pool.
type PathRef uint32

// BrushRef is a reference to a brush in the resource pool.
type BrushRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a valid path.
func (r PathRef) IsValid() bool { return uint32(r) != InvalidRef }

// IsValid returns true if the reference points to a valid brush.
func (r BrushRef) IsValid() bool { return uint32(r) != InvalidRef }

// SaveCommand saves the current graphics state.
type SaveCommand struct{}

// Type implements Command.
func (SaveCommand) Type() CommandType { return CmdSave }

// RestoreCommand restores the previously saved graphics state, closing
// every mask and group opened since the matching Save.
type RestoreCommand struct{}

// Type implements Command.
func (RestoreCommand) Type() CommandType { return CmdRestore }

// SetTransformCommand sets the current transformation matrix.
type SetTransformCommand struct {
	Matrix Matrix
}

// Type implements Command.
func (SetTransformCommand) Type() CommandType { return CmdSetTransform }

// SetOpacityCommand multiplies the opacity of everything drawn until the
// next Restore. The content is composited as one group.
type SetOpacityCommand struct {
	Alpha float64
}

// Type implements Command.
func (SetOpacityCommand) Type() CommandType { return CmdSetOpacity }

// PushMaskCommand clips subsequent drawing by a mask path, expressed in
// the current transform.
type PushMaskCommand struct {
	Path PathRef
	Mask Mask
}

// Type implements Command.
func (PushMaskCommand) Type() CommandType { return CmdPushMask }

// BeginMatteCommand starts the content of a track matte. Drawing up to the
// matching EndMatte builds the matte instead of painting.
type BeginMatteCommand struct {
	Mode MatteMode
}

// Type implements Command.
func (BeginMatteCommand) Type() CommandType { return CmdBeginMatte }

// EndMatteCommand ends the matte content; drawing until the matching
// PopMask is clipped by it.
type EndMatteCommand struct{}

// Type implements Command.
func (EndMatteCommand) Type() CommandType { return CmdEndMatte }

// PopMaskCommand removes the innermost mask or matte.
type PopMaskCommand struct{}

// Type implements Command.
func (PopMaskCommand) Type() CommandType { return CmdPopMask }

// FillPathCommand fills a compound path with a brush. The paths are
// filled together, so overlaps follow the fill rule.
type FillPathCommand struct {
	Paths []PathRef
	Brush BrushRef
	Rule  FillRule
}

// Type implements Command.
func (FillPathCommand) Type() CommandType { return CmdFillPath }

// StrokePathCommand strokes a compound path with a brush.
type StrokePathCommand struct {
	Paths  []PathRef
	Brush  BrushRef
	Stroke Stroke
}

// Type implements Command.
func (StrokePathCommand) Type() CommandType { return CmdStrokePath }

// DrawImageCommand draws an image asset at the origin of the current
// transform.
type DrawImageCommand struct {
	AssetID       string
	Width, Height float64
}

// Type implements Command.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// FillRule specifies how to determine which areas are inside a path.
type FillRule uint8

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// Stroke defines the style for stroking paths.
type Stroke struct {
	Width       float64
	Cap         LineCap
	Join        LineJoin
	MiterLimit  float64
	DashPattern []float64 // nil for a solid line
	DashOffset  float64
}

// DefaultStroke returns a Stroke with default settings.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}
}

// Clone creates a deep copy of the Stroke.
func (s Stroke) Clone() Stroke {
	result := s
	if s.DashPattern != nil {
		result.DashPattern = make([]float64, len(s.DashPattern))
		copy(result.DashPattern, s.DashPattern)
	}
	return result
}

// MaskMode is how a mask combines with the content below it.
type MaskMode uint8

const (
	MaskAdd MaskMode = iota
	MaskSubtract
	MaskIntersect
	MaskLighten
	MaskDarken
	MaskDifference
)

// Mask describes one layer mask.
type Mask struct {
	Mode     MaskMode
	Inverted bool
	Opacity  float64
}

// MatteMode is the channel a track matte reads.
type MatteMode uint8

const (
	MatteAlpha MatteMode = iota
	MatteAlphaInverted
	MatteLuma
	MatteLumaInverted
)

// Inverted reports whether the matte keeps what lies outside its content.
func (m MatteMode) Inverted() bool { return m == MatteAlphaInverted || m == MatteLumaInverted }

// Luma reports whether the matte reads luminance instead of alpha.
func (m MatteMode) Luma() bool { return m == MatteLuma || m == MatteLumaInverted }
