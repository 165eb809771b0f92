package qrcode

// Reed-Solomon arithmetic over GF(2^8) with the QR reducing polynomial
// x^8 + x^4 + x^3 + x^2 + 1.
const gfPoly = 0x11D

// gfMultiply returns the product of x and y in GF(2^8).
func gfMultiply(x, y byte) byte {
	z := 0
	for i := 7; i >= 0; i-- {
		z = (z << 1) ^ ((z >> 7) * gfPoly)
		z ^= int((y>>uint(i))&1) * int(x)
	}
	return byte(z)
}

// reedSolomonDivisor returns the generator polynomial of the given degree,
// highest coefficient first with the leading 1 dropped.
func reedSolomonDivisor(degree int) []byte {
	result := make([]byte, degree)
	result[degree-1] = 1

	root := byte(1)
	for i := 0; i < degree; i++ {
		for j := range result {
			result[j] = gfMultiply(result[j], root)
			if j+1 < len(result) {
				result[j] ^= result[j+1]
			}
		}
		root = gfMultiply(root, 0x02)
	}
	return result
}

// reedSolomonRemainder returns the error correction codewords for data.
func reedSolomonRemainder(data, divisor []byte) []byte {
	result := make([]byte, len(divisor))
	for _, b := range data {
		factor := b ^ result[0]
		copy(result, result[1:])
		result[len(result)-1] = 0
		for i, coef := range divisor {
			result[i] ^= gfMultiply(coef, factor)
		}
	}
	return result
}

// addECCAndInterleave splits data into the blocks the version and level
// prescribe, appends ECC to each block and interleaves the result into the
// final codeword sequence.
func addECCAndInterleave(data []byte, version int, level Level) []byte {
	numBlocks := numErrorCorrectionBlocks[level][version]
	blockECCLen := eccCodewordsPerBlock[level][version]
	rawCodewords := numRawDataModules(version) / 8
	numShortBlocks := numBlocks - rawCodewords%numBlocks
	shortBlockLen := rawCodewords / numBlocks

	divisor := reedSolomonDivisor(blockECCLen)
	blocks := make([][]byte, 0, numBlocks)
	for i, k := 0, 0; i < numBlocks; i++ {
		n := shortBlockLen - blockECCLen
		if i >= numShortBlocks {
			n++
		}
		dat := data[k : k+n]
		k += n

		block := make([]byte, 0, shortBlockLen+1)
		block = append(block, dat...)
		if i < numShortBlocks {
			// placeholder so every block has the same length; skipped below
			block = append(block, 0)
		}
		block = append(block, reedSolomonRemainder(dat, divisor)...)
		blocks = append(blocks, block)
	}

	result := make([]byte, 0, rawCodewords)
	for i := range blocks[0] {
		for j, block := range blocks {
			if i != shortBlockLen-blockECCLen || j >= numShortBlocks {
				result = append(result, block[i])
			}
		}
	}
	return result
}
