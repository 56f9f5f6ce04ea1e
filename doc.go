// Package lottie evaluates vector animations exported as Lottie JSON.
//
// # Overview
//
// An Animation holds a parsed document and a runtime scene. Render
// evaluates every animatable property at a frame and returns a Frame: per
// layer transform matrices, opacity, masks, mattes and styled path
// geometry. Drawing the Frame is left to a backend; the recording package
// converts frames into replayable commands and ships an SVG writer.
//
// # Quick Start
//
//	anim, err := lottie.LoadFile("spinner.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	frame, err := anim.Render(ctx, 12)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, l := range frame.Layers {
//	    fmt.Println(l.Name, l.Opacity, len(l.Styles))
//	}
//
// # Playback
//
// A Player turns caller-supplied timestamps into frames with Linear, Loop
// or Throbbing playback, at any speed, over the whole animation or a
// sub-range.
//
// # Architecture
//
// The library is organized into:
//   - geom: points, 4x4 matrices, cubic beziers, easing, quaternions
//   - shape: bezier paths, path collections, object pools
//   - property: keyframe interpolation and the evaluation context
//   - document: the JSON model, validation and normalization
//   - modifier: trim paths, round corners, repeaters
//   - transform, scene, text: the runtime layer graph
//   - recording, expression: output and scripting collaborators
//
// # Concurrency
//
// Rendering is synchronous and an Animation must be used from one
// goroutine at a time. Animations share no mutable state, so independent
// ones can render in parallel.
package lottie
