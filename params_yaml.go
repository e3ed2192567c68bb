package glass

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeParameters reads a YAML parameter document layered on top of
// DefaultParameters. Fields missing from the document keep their defaults.
// Out-of-range numbers are kept as written; they are clamped on use.
//
// Colours are strings in the forms accepted by ParseHex and must be quoted
// in YAML, since an unquoted '#' starts a comment:
//
//	blurRadius: 8
//	tintColor: "#3060FF40"
//	cornerRadius: 24
//	shadow:
//	  offset: {x: 0, y: 6}
func DecodeParameters(r io.Reader) (DrawParameters, error) {
	p := DefaultParameters()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return DefaultParameters(), nil
		}
		return DefaultParameters(), fmt.Errorf("glass: decode parameters: %w", err)
	}
	return p, nil
}

// EncodeParameters writes p as a YAML document.
func EncodeParameters(w io.Writer, p DrawParameters) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("glass: encode parameters: %w", err)
	}
	return enc.Close()
}

// UnmarshalYAML accepts a colour string such as "#RRGGBBAA".
func (c *RGBA) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	v, err := ParseHex(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = v
	return nil
}

// MarshalYAML writes the colour as "#RRGGBBAA".
func (c RGBA) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// UnmarshalYAML accepts either a single number applied to every corner or a
// mapping with per-corner values.
func (c *CornerRadius) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var r float64
		if err := n.Decode(&r); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*c = Uniform(r)
		return nil
	}
	type plain CornerRadius
	v := plain(*c)
	if err := n.Decode(&v); err != nil {
		return err
	}
	*c = CornerRadius(v)
	return nil
}
