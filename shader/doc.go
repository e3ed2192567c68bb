// Package shader provides the custom pixel programs of the glass passes:
// the lens refraction, the directional edge highlight and the interactive
// press glow.
//
// Each program ships as WGSL, compiled through naga by a Registry the first
// time it is requested, and as a CPU evaluator with identical maths in
// float32. A program whose WGSL fails to compile is reported as unavailable
// so the caller can degrade that stage instead of failing the frame.
package shader
