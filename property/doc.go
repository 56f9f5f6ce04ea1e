// Package property evaluates animatable values.
//
// A [Property] is either constant ([Static]), driven by keyframes
// ([Keyframed]), split into independent components ([Split]) or a path
// ([Shape]). All kinds share the same contract: Update evaluates the value
// for the current tick of a [Context] and reports whether it changed, and
// repeated calls within a tick return the memoized result.
//
// Keyframed interpolation supports hold keyframes, per-dimension cubic
// bezier easing, motion paths parameterized by arc length, and shortest-arc
// interpolation of orientations. Frames before the first or after the last
// keyframe clamp to the boundary value.
//
// Evaluation is single threaded. A Context and everything built against it
// belong to one animation.
package property
