package scene

// BlendMode is a layer blend mode. The numeric values match the document
// encoding (bm).
type BlendMode uint8

// Blend modes.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendAdd
	BlendHardMix
)

var blendNames = [...]string{
	"normal", "multiply", "screen", "overlay", "darken", "lighten",
	"color-dodge", "color-burn", "hard-light", "soft-light", "difference",
	"exclusion", "hue", "saturation", "color", "luminosity", "add", "hard-mix",
}

// String returns the CSS-style name of the mode.
func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return unknownStr
}

// blendFromDocument maps a document blend value, falling back to normal.
func blendFromDocument(v int) BlendMode {
	if v < 0 || v >= len(blendNames) {
		return BlendNormal
	}
	return BlendMode(v)
}

const unknownStr = "unknown"
