package qrcode

// matrix is the working grid while a symbol is being built. Coordinates are
// x = column, y = row, origin top left.
type matrix struct {
	version  int
	size     int
	modules  [][]bool
	function [][]bool
}

func newMatrix(version int) *matrix {
	size := symbolSize(version)
	m := &matrix{
		version:  version,
		size:     size,
		modules:  make([][]bool, size),
		function: make([][]bool, size),
	}
	for y := 0; y < size; y++ {
		m.modules[y] = make([]bool, size)
		m.function[y] = make([]bool, size)
	}
	return m
}

func (m *matrix) setFunction(x, y int, dark bool) {
	m.modules[y][x] = dark
	m.function[y][x] = true
}

// drawFunctionPatterns draws timing, finder and alignment patterns and the
// version information, and reserves the format areas with a dummy value.
func (m *matrix) drawFunctionPatterns() {
	for i := 0; i < m.size; i++ {
		m.setFunction(6, i, i%2 == 0)
		m.setFunction(i, 6, i%2 == 0)
	}

	m.drawFinderPattern(3, 3)
	m.drawFinderPattern(m.size-4, 3)
	m.drawFinderPattern(3, m.size-4)

	positions := alignmentPatternPositions(m.version)
	last := len(positions) - 1
	for i, y := range positions {
		for j, x := range positions {
			// corners already taken by finder patterns
			if (i == 0 && j == 0) || (i == 0 && j == last) || (i == last && j == 0) {
				continue
			}
			m.drawAlignmentPattern(x, y)
		}
	}

	m.drawFormatBits(Medium, 0)
	m.drawVersion()
}

// drawFinderPattern draws a finder pattern with its separator, centered on
// (cx, cy). Modules that would fall outside the grid are skipped.
func (m *matrix) drawFinderPattern(cx, cy int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			dist := max(abs(dx), abs(dy))
			x, y := cx+dx, cy+dy
			if x >= 0 && x < m.size && y >= 0 && y < m.size {
				m.setFunction(x, y, dist != 2 && dist != 4)
			}
		}
	}
}

func (m *matrix) drawAlignmentPattern(cx, cy int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			m.setFunction(cx+dx, cy+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

// formatBits returns the 15-bit BCH protected format word for the level and mask.
func formatBits(level Level, mask int) int {
	data := level.formatBits()<<3 | mask
	rem := data
	for i := 0; i < 10; i++ {
		rem = (rem << 1) ^ ((rem >> 9) * 0x537)
	}
	return (data<<10 | rem) ^ 0x5412
}

// versionBits returns the 18-bit BCH protected version word.
func versionBits(version int) int {
	rem := version
	for i := 0; i < 12; i++ {
		rem = (rem << 1) ^ ((rem >> 11) * 0x1F25)
	}
	return version<<12 | rem
}

// drawFormatBits writes both copies of the format word and the dark module.
func (m *matrix) drawFormatBits(level Level, mask int) {
	bits := formatBits(level, mask)

	for i := 0; i <= 5; i++ {
		m.setFunction(8, i, bit(bits, i))
	}
	m.setFunction(8, 7, bit(bits, 6))
	m.setFunction(8, 8, bit(bits, 7))
	m.setFunction(7, 8, bit(bits, 8))
	for i := 9; i < 15; i++ {
		m.setFunction(14-i, 8, bit(bits, i))
	}

	for i := 0; i < 8; i++ {
		m.setFunction(m.size-1-i, 8, bit(bits, i))
	}
	for i := 8; i < 15; i++ {
		m.setFunction(8, m.size-15+i, bit(bits, i))
	}
	m.setFunction(8, m.size-8, true)
}

// drawVersion writes both copies of the version word (versions 7 and up).
func (m *matrix) drawVersion() {
	if m.version < 7 {
		return
	}
	bits := versionBits(m.version)
	for i := 0; i < 18; i++ {
		dark := bit(bits, i)
		a := m.size - 11 + i%3
		b := i / 3
		m.setFunction(a, b, dark)
		m.setFunction(b, a, dark)
	}
}

// drawCodewords places the codeword bits along the two-column zig-zag path
// from the bottom-right corner, skipping function modules. Remainder bits
// stay light.
func (m *matrix) drawCodewords(codewords []byte) {
	i := 0
	total := len(codewords) * 8
	for right := m.size - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		upward := (right+1)&2 == 0
		for vert := 0; vert < m.size; vert++ {
			for j := 0; j < 2; j++ {
				x := right - j
				y := vert
				if upward {
					y = m.size - 1 - vert
				}
				if !m.function[y][x] && i < total {
					m.modules[y][x] = bit(int(codewords[i>>3]), 7-(i&7))
					i++
				}
			}
		}
	}
}

func bit(x, i int) bool {
	return (x>>uint(i))&1 != 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
