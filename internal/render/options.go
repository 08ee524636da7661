package render

// PathMode specifies how document paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative when the document lives under the
	// graph base directory, absolute otherwise.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses the stored path.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// Options configures diagnostic rendering.
type Options struct {
	Color     bool
	ShowNotes bool
	PathMode  PathMode
}
