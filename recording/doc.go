// Package recording turns evaluated animation frames into a flat list of
// drawing commands that can be played back to different backends.
//
// # Architecture
//
// The system follows a Command Pattern with three main components:
//
//   - Recorder: converts a scene.Frame into commands
//   - Recording: stores commands and resources for playback
//   - Backend: renders commands to a specific output format
//
// # Basic Usage
//
//	frame, err := anim.Render(ctx, 24)
//	if err != nil {
//	    return err
//	}
//	r := recording.NewRecorder(0, 0).Record(frame)
//
//	svg, _ := recording.NewBackend("svg")
//	if err := r.Playback(svg); err != nil {
//	    return err
//	}
//	svg.(recording.FileBackend).SaveToFile("frame-24.svg")
//
// A Recording copies every path it references, so it stays valid after
// the animation renders its next frame.
//
// # Paint Model
//
// Layers are replayed in paint order. Each layer is bracketed by Save and
// Restore; inside, the recorder emits in order the layer opacity group,
// the track matte, the layer masks, and the layer content. Matte sources
// are not drawn on their own. A precomposition is clipped to its declared
// size.
//
// # Backend Registration
//
// Backends are registered using the database/sql driver pattern. Import a
// backend package with a blank identifier to register it:
//
//	import _ "github.com/gogpu/lottie/recording/backends/svg"
//
// Implement [Backend] and call [Register] from an init function to add a
// custom output format.
//
// # Thread Safety
//
// Recorder is NOT safe for concurrent use. Recording objects are immutable
// once returned and can be played back from multiple goroutines.
package recording
