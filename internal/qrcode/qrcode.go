// Package qrcode encodes text into QR Code symbols (ISO/IEC 18004, model 2,
// versions 1 through 40).
//
// The input is encoded as one segment in the most compact of numeric,
// alphanumeric or byte mode, in the smallest version that holds it at the
// requested error correction level. All eight masks are scored and the best
// one is applied. Encoding is deterministic: the same text and level always
// produce the same symbol.
package qrcode

import (
	"fmt"
	"strings"
)

// Level is the error correction level of a symbol.
type Level int

const (
	Low      Level = iota // recovers ~7% of codewords
	Medium                // ~15%
	Quartile              // ~25%
	High                  // ~30%
)

func (l Level) String() string {
	switch l {
	case Low:
		return "L"
	case Medium:
		return "M"
	case Quartile:
		return "Q"
	case High:
		return "H"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// formatBits returns the two-bit level indicator used in the format word.
func (l Level) formatBits() int {
	return [4]int{1, 0, 3, 2}[l]
}

func (l Level) valid() bool {
	return l >= Low && l <= High
}

// ParseLevel accepts L, M, Q, H or the names low, medium, quartile, high,
// in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return Low, nil
	case "m", "medium":
		return Medium, nil
	case "q", "quartile":
		return Quartile, nil
	case "h", "high":
		return High, nil
	}
	return 0, fmt.Errorf("qrcode: unknown error correction level %q", s)
}

// EncodingError is returned when the text does not fit any version at the
// requested level.
type EncodingError struct {
	Mode     string
	Length   int // characters in the chosen mode (bytes for byte mode)
	Capacity int // largest length that fits version 40 at Level
	Level    Level
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("qrcode: %d %s characters exceed the level %s capacity of %d",
		e.Length, e.Mode, e.Level, e.Capacity)
}

// Symbol is an encoded QR Code. The module grid cannot change after Encode;
// Version, Level and Mask record how it was built.
type Symbol struct {
	Version int
	Level   Level
	Mask    int
	modules [][]bool
}

// Size returns the side length in modules, without quiet zone.
func (s *Symbol) Size() int {
	return len(s.modules)
}

// Dark reports whether the module at column x, row y is dark. Coordinates
// outside the symbol are light, which is what the quiet zone needs.
func (s *Symbol) Dark(x, y int) bool {
	if x < 0 || y < 0 || x >= len(s.modules) || y >= len(s.modules) {
		return false
	}
	return s.modules[y][x]
}

// Encode encodes text at the given error correction level.
func Encode(text string, level Level) (*Symbol, error) {
	if !level.valid() {
		return nil, fmt.Errorf("qrcode: invalid error correction level %d", int(level))
	}

	seg := newSegment(text)
	version := 0
	for v := minVersion; v <= maxVersion; v++ {
		if seg.fits(v, level) {
			version = v
			break
		}
	}
	if version == 0 {
		return nil, &EncodingError{
			Mode:     seg.mode.String(),
			Length:   seg.numChars,
			Capacity: capacity(seg.mode, level),
			Level:    level,
		}
	}

	codewords := addECCAndInterleave(seg.codewords(version, level), version, level)

	m := newMatrix(version)
	m.drawFunctionPatterns()
	m.drawCodewords(codewords)
	mask := m.chooseMask(level)
	m.applyMask(mask)
	m.drawFormatBits(level, mask)

	return &Symbol{
		Version: version,
		Level:   level,
		Mask:    mask,
		modules: m.modules,
	}, nil
}

// capacity returns the largest character count of the mode that fits a
// version 40 symbol at the level.
func capacity(md mode, level Level) int {
	bits := numDataCodewords(maxVersion, level)*8 - 4 - md.charCountBits(maxVersion)
	return md.capacity(bits)
}

// MaxBytes returns how many bytes of byte-mode text fit the largest symbol
// at the level.
func MaxBytes(level Level) int {
	return capacity(modeByte, level)
}
