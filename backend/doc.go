// Package backend selects the image-filter backend the composite pipeline
// runs on.
//
// Backends register a factory from an init function and are looked up by
// name. The software backend registers itself on import:
//
//	import _ "github.com/gogpu/glass/backend/software"
//
// Use Default to get the best available backend, or Get to request one by
// name:
//
//	b := backend.Default()
//	b, err := backend.Get("software")
//
// # Available Backends
//
// - "software": CPU filters and program evaluators (always available)
package backend
