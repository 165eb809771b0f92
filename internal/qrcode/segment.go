package qrcode

import "strings"

type mode int

const (
	modeNumeric mode = iota
	modeAlphanumeric
	modeByte
)

const alphanumericCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

func (m mode) String() string {
	switch m {
	case modeNumeric:
		return "numeric"
	case modeAlphanumeric:
		return "alphanumeric"
	default:
		return "byte"
	}
}

func (m mode) indicator() uint32 {
	switch m {
	case modeNumeric:
		return 0x1
	case modeAlphanumeric:
		return 0x2
	default:
		return 0x4
	}
}

// charCountBits returns the width of the character count field for the
// mode at the given version.
func (m mode) charCountBits(version int) int {
	i := (version + 7) / 17
	switch m {
	case modeNumeric:
		return [3]int{10, 12, 14}[i]
	case modeAlphanumeric:
		return [3]int{9, 11, 13}[i]
	default:
		return [3]int{8, 16, 16}[i]
	}
}

// capacity returns the largest character count of this mode that fits
// in dataBits bits after the header.
func (m mode) capacity(dataBits int) int {
	if dataBits <= 0 {
		return 0
	}
	switch m {
	case modeNumeric:
		n := dataBits / 10 * 3
		switch rem := dataBits % 10; {
		case rem >= 7:
			n += 2
		case rem >= 4:
			n++
		}
		return n
	case modeAlphanumeric:
		n := dataBits / 11 * 2
		if dataBits%11 >= 6 {
			n++
		}
		return n
	default:
		return dataBits / 8
	}
}

type bitBuffer []bool

func (b *bitBuffer) appendBits(val uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		*b = append(*b, (val>>uint(i))&1 != 0)
	}
}

// bytes packs the buffer big-endian into bytes. The length must be a
// multiple of 8.
func (b bitBuffer) bytes() []byte {
	out := make([]byte, len(b)/8)
	for i, bit := range b {
		if bit {
			out[i>>3] |= 1 << (7 - uint(i&7))
		}
	}
	return out
}

// segment is the whole input encoded in a single mode.
type segment struct {
	mode     mode
	numChars int
	data     bitBuffer
}

// newSegment picks the most compact mode that represents text losslessly
// and packs the payload bits for it.
func newSegment(text string) segment {
	switch {
	case isNumeric(text):
		return segment{mode: modeNumeric, numChars: len(text), data: packNumeric(text)}
	case isAlphanumeric(text):
		return segment{mode: modeAlphanumeric, numChars: len(text), data: packAlphanumeric(text)}
	default:
		raw := []byte(text)
		var bb bitBuffer
		for _, c := range raw {
			bb.appendBits(uint32(c), 8)
		}
		return segment{mode: modeByte, numChars: len(raw), data: bb}
	}
}

func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}

func isAlphanumeric(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if strings.IndexByte(alphanumericCharset, text[i]) < 0 {
			return false
		}
	}
	return true
}

func packNumeric(digits string) bitBuffer {
	var bb bitBuffer
	for i := 0; i < len(digits); {
		n := min(3, len(digits)-i)
		val := uint32(0)
		for _, c := range digits[i : i+n] {
			val = val*10 + uint32(c-'0')
		}
		bb.appendBits(val, n*3+1)
		i += n
	}
	return bb
}

func packAlphanumeric(text string) bitBuffer {
	var bb bitBuffer
	i := 0
	for ; i+1 < len(text); i += 2 {
		val := strings.IndexByte(alphanumericCharset, text[i])*45 +
			strings.IndexByte(alphanumericCharset, text[i+1])
		bb.appendBits(uint32(val), 11)
	}
	if i < len(text) {
		bb.appendBits(uint32(strings.IndexByte(alphanumericCharset, text[i])), 6)
	}
	return bb
}

// fits reports whether the segment fits a symbol of the version and level.
func (s segment) fits(version int, level Level) bool {
	ccBits := s.mode.charCountBits(version)
	if s.numChars >= 1<<uint(ccBits) {
		return false
	}
	used := 4 + ccBits + len(s.data)
	return used <= numDataCodewords(version, level)*8
}

// codewords builds the data codeword sequence: header, payload, terminator
// and the alternating 0xEC/0x11 pad bytes.
func (s segment) codewords(version int, level Level) []byte {
	capacityBits := numDataCodewords(version, level) * 8

	bb := make(bitBuffer, 0, capacityBits)
	bb.appendBits(s.mode.indicator(), 4)
	bb.appendBits(uint32(s.numChars), s.mode.charCountBits(version))
	bb = append(bb, s.data...)

	bb.appendBits(0, min(4, capacityBits-len(bb)))
	bb.appendBits(0, (8-len(bb)%8)%8)
	for pad := uint32(0xEC); len(bb) < capacityBits; pad ^= 0xEC ^ 0x11 {
		bb.appendBits(pad, 8)
	}
	return bb.bytes()
}
