package qrcode

// Penalty weights for the four mask evaluation rules.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

const numMasks = 8

// maskBit reports whether the module at (x, y) is inverted by the mask.
func maskBit(mask, x, y int) bool {
	switch mask {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (x/3+y/2)%2 == 0
	case 5:
		return x*y%2+x*y%3 == 0
	case 6:
		return (x*y%2+x*y%3)%2 == 0
	case 7:
		return ((x+y)%2+x*y%3)%2 == 0
	default:
		panic("qrcode: mask out of range")
	}
}

// applyMask XORs the mask over every non-function module. Applying the
// same mask twice restores the grid.
func (m *matrix) applyMask(mask int) {
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			if !m.function[y][x] && maskBit(mask, x, y) {
				m.modules[y][x] = !m.modules[y][x]
			}
		}
	}
}

// chooseMask tries all eight masks and returns the one with the lowest
// penalty. Ties go to the lower mask number. The grid is left unmasked.
func (m *matrix) chooseMask(level Level) int {
	best, minPenalty := 0, -1
	for mask := 0; mask < numMasks; mask++ {
		m.applyMask(mask)
		m.drawFormatBits(level, mask)
		penalty := m.penaltyScore()
		m.applyMask(mask)
		if minPenalty < 0 || penalty < minPenalty {
			best, minPenalty = mask, penalty
		}
	}
	return best
}

func (m *matrix) penaltyScore() int {
	return m.runPenalty(true) + m.runPenalty(false) +
		m.blockPenalty() + m.finderLikePenalty() + m.balancePenalty()
}

func (m *matrix) at(horizontal bool, i, j int) bool {
	if horizontal {
		return m.modules[i][j]
	}
	return m.modules[j][i]
}

// runPenalty scores rows (or columns) with five or more adjacent modules of
// the same color.
func (m *matrix) runPenalty(horizontal bool) int {
	penalty := 0
	for i := 0; i < m.size; i++ {
		run := 0
		prev := false
		for j := 0; j < m.size; j++ {
			dark := m.at(horizontal, i, j)
			if j > 0 && dark == prev {
				run++
				continue
			}
			if run >= 5 {
				penalty += penaltyN1 + run - 5
			}
			run, prev = 1, dark
		}
		if run >= 5 {
			penalty += penaltyN1 + run - 5
		}
	}
	return penalty
}

// blockPenalty scores every 2x2 block of a single color.
func (m *matrix) blockPenalty() int {
	penalty := 0
	for y := 0; y < m.size-1; y++ {
		for x := 0; x < m.size-1; x++ {
			c := m.modules[y][x]
			if c == m.modules[y][x+1] && c == m.modules[y+1][x] && c == m.modules[y+1][x+1] {
				penalty += penaltyN2
			}
		}
	}
	return penalty
}

// finderLikePenalty scores 1:1:3:1:1 dark-light patterns with four light
// modules on either side, in both directions.
func (m *matrix) finderLikePenalty() int {
	count := 0
	for _, horizontal := range []bool{true, false} {
		for i := 0; i < m.size; i++ {
			for j := 0; j+6 < m.size; j++ {
				if m.at(horizontal, i, j) && !m.at(horizontal, i, j+1) &&
					m.at(horizontal, i, j+2) && m.at(horizontal, i, j+3) && m.at(horizontal, i, j+4) &&
					!m.at(horizontal, i, j+5) && m.at(horizontal, i, j+6) &&
					(m.isLight(horizontal, i, j-4, j) || m.isLight(horizontal, i, j+7, j+11)) {
					count++
				}
			}
		}
	}
	return count * penaltyN3
}

// isLight reports whether modules [from, to) of line i are all light. The
// range is clipped to the grid; positions outside count as light.
func (m *matrix) isLight(horizontal bool, i, from, to int) bool {
	from = max(from, 0)
	to = min(to, m.size)
	for j := from; j < to; j++ {
		if m.at(horizontal, i, j) {
			return false
		}
	}
	return true
}

// balancePenalty scores the deviation of the dark ratio from 50% in steps
// of 5%.
func (m *matrix) balancePenalty() int {
	dark := 0
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			if m.modules[y][x] {
				dark++
			}
		}
	}
	total := m.size * m.size
	return abs(dark*2-total) * 10 / total * penaltyN4
}
