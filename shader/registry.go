package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/naga"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/raster"
)

// Embedded WGSL program sources.

//go:embed wgsl/lens.wgsl
var lensSource string

//go:embed wgsl/edge_highlight.wgsl
var edgeHighlightSource string

//go:embed wgsl/interactive_highlight.wgsl
var interactiveHighlightSource string

// ErrUnknownProgram is returned for names the registry does not know.
var ErrUnknownProgram = errors.New("shader: unknown program")

// Compiler turns WGSL source into a backend module (SPIR-V for naga).
type Compiler func(source string) ([]byte, error)

// builtin pairs each program's WGSL with its CPU evaluator.
var builtin = map[string]struct {
	source string
	prog   raster.Program
}{
	Lens:                 {lensSource, lensProgram{}},
	EdgeHighlight:        {edgeHighlightSource, edgeHighlightProgram{}},
	InteractiveHighlight: {interactiveHighlightSource, interactiveHighlightProgram{}},
}

// Option configures a Registry.
type Option func(*Registry)

// WithCompiler replaces the WGSL compiler. The default is naga.Compile.
func WithCompiler(c Compiler) Option {
	return func(r *Registry) { r.compile = c }
}

// WithSource overrides the WGSL source of a builtin program.
func WithSource(name, source string) Option {
	return func(r *Registry) { r.sources[name] = source }
}

// Registry compiles each program's WGSL once, on first use, and hands out
// the program only if compilation succeeded. A failed compile is remembered
// so later lookups fail fast.
type Registry struct {
	compile Compiler
	sources map[string]string

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once   sync.Once
	module []byte
	err    error
}

// NewRegistry creates a registry of the builtin programs.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		compile: naga.Compile,
		sources: make(map[string]string, len(builtin)),
		entries: make(map[string]*entry, len(builtin)),
	}
	for name, b := range builtin {
		r.sources[name] = b.source
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Program returns the named program. The error wraps
// raster.ErrProgramUnavailable when the WGSL failed to compile.
func (r *Registry) Program(name string) (raster.Program, error) {
	b, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}
	e := r.entry(name)
	e.once.Do(func() {
		e.module, e.err = r.compile(r.sources[name])
		if e.err == nil && len(e.module) == 0 {
			e.err = errors.New("empty module")
		}
		if e.err != nil {
			glass.Logger().Warn("shader: compile failed", "program", name, "err", e.err)
		}
	})
	if e.err != nil {
		return nil, fmt.Errorf("%w: %s: %w", raster.ErrProgramUnavailable, name, e.err)
	}
	return b.prog, nil
}

// Module returns the compiled module bytes of a program that compiled
// successfully, for backends that upload it to a device.
func (r *Registry) Module(name string) ([]byte, bool) {
	if _, err := r.Program(name); err != nil {
		return nil, false
	}
	return r.entry(name).module, true
}

// Source returns the WGSL source the registry compiles for name.
func (r *Registry) Source(name string) string {
	return r.sources[name]
}

// Names returns the builtin program names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) entry(name string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		e = &entry{}
		r.entries[name] = e
	}
	return e
}
