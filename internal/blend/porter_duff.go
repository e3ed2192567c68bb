// Package blend implements the compositing operators used by the glass
// passes: a Porter-Duff subset, additive Plus and the W3C Hue mode.
//
// All blend operations work with premultiplied alpha values in the range 0-255.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode represents a compositing operation.
type Mode uint8

const (
	SourceOver     Mode = iota // Result: S + D*(1-Sa) [default]
	Clear                      // Result: 0
	Source                     // Result: S
	DestinationIn              // Result: D*Sa
	DestinationOut             // Result: D*(1-Sa)
	Plus                       // Result: S + D (clamped to 255)
	Hue                        // W3C non-separable hue
)

func (m Mode) String() string {
	switch m {
	case SourceOver:
		return "src-over"
	case Clear:
		return "clear"
	case Source:
		return "src"
	case DestinationIn:
		return "dst-in"
	case DestinationOut:
		return "dst-out"
	case Plus:
		return "plus"
	case Hue:
		return "hue"
	}
	return "unknown"
}

// Func is the signature for blend operations.
// All values are premultiplied alpha, 0-255.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// FuncFor returns the blend function for mode.
// Unknown modes fall back to SourceOver.
func FuncFor(mode Mode) Func {
	switch mode {
	case Clear:
		return blendClear
	case Source:
		return blendSource
	case DestinationIn:
		return blendDestinationIn
	case DestinationOut:
		return blendDestinationOut
	case Plus:
		return blendPlus
	case Hue:
		return blendHue
	default:
		return blendSourceOver
	}
}

func blendClear(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

func blendSource(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}

// blendDestinationIn shows destination where source is opaque.
// Formula: D * Sa
func blendDestinationIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

// blendDestinationOut punches the source shape out of the destination.
// Formula: D * (1 - Sa)
func blendDestinationOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// blendPlus adds source and destination colors (clamped to 255).
func blendPlus(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return addDiv255(sr, dr), addDiv255(sg, dg), addDiv255(sb, db), addDiv255(sa, da)
}

// mulDiv255 multiplies two byte values and divides by 255 with rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addDiv255 adds two byte values with clamping to 255.
func addDiv255(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// lerp255 moves d towards v by cov/255.
func lerp255(d, v, cov byte) byte {
	delta := int(v) - int(d)
	if delta >= 0 {
		return byte(int(d) + (delta*int(cov)+127)/255)
	}
	return byte(int(d) - (-delta*int(cov)+127)/255)
}
