// Package posepaint turns per-frame human pose keypoints into real-time
// generative visuals for [Ebitengine].
//
// A pose estimator (running elsewhere) supplies a list of 17-keypoint COCO
// poses every frame. posepaint filters them by confidence and drives one of
// several effect engines: direct keypoint, skeleton and trail painting,
// breathing glow circles that grow while the hands are raised, pooled
// firework bursts, a wrist smoke plume, and noise-driven paint particles.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and feeds
// a [PoseSource] into a [Session] every frame:
//
//	s := posepaint.NewSession(posepaint.DefaultConfig())
//	src := posepaint.NewSyntheticSource(640, 480, 2)
//	posepaint.Run(s, src, posepaint.RunConfig{
//		Title: "posepaint", Width: 640, Height: 480,
//	})
//
// For full control, own the loop yourself and call [Session.Render] with
// any [Canvas]:
//
//	canvas := posepaint.NewImageCanvas(640, 480)
//	canvas.BeginFrame()
//	s.Render(canvas, poses, time.Now())
//	screen.DrawImage(canvas.Image(), nil)
//
// # Modes
//
// Modes are selected with [Session.SetMode] and applied at the start of the
// next frame. Mode names ("keypoints", "skeleton", "trails", "circles",
// "fireworks", "smoke", "particles") are parsed by [ParseMode] and used by
// the JSON [Config].
//
// # Time
//
// Every velocity, decay and probability in posepaint is tuned per 1/60 s
// reference frame and scaled by the measured frame delta, so effects look
// the same at any frame rate. Deltas are clamped to [MaxFrameDelta].
//
// # Integration
//
// Subpackages adapt the core to other surfaces: posehub receives poses over
// WebSocket (Fiber), term renders into a terminal (tcell), and ecs forwards
// gesture events into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package posepaint
