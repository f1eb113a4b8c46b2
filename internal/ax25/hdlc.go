package ax25

// maxOnes is the run length after which a zero is stuffed.
const maxOnes = 5

// Bits expands data to bits, least significant bit of each byte first.
func Bits(data []byte) []bool {
	out := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for i := range 8 {
			out = append(out, b>>i&1 == 1)
		}
	}
	return out
}

// Pack is the inverse of Bits. A trailing partial byte is dropped.
func Pack(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := range 8 {
			if bits[i*8+j] {
				b |= 1 << j
			}
		}
		out[i] = b
	}
	return out
}

// BitStuff serializes data LSB first and inserts a zero after every run of
// five ones.
func BitStuff(data []byte) []bool {
	return BitStuffBits(Bits(data))
}

// BitStuffBits applies zero insertion to an arbitrary bit sequence.
func BitStuffBits(bits []bool) []bool {
	out := make([]bool, 0, len(bits)+len(bits)/maxOnes)
	ones := 0
	for _, b := range bits {
		out = append(out, b)
		if !b {
			ones = 0
			continue
		}
		ones++
		if ones == maxOnes {
			out = append(out, false)
			ones = 0
		}
	}
	return out
}

// Unstuff removes the zero following every run of five ones.
func Unstuff(bits []bool) []bool {
	out := make([]bool, 0, len(bits))
	ones := 0
	for _, b := range bits {
		if b {
			out = append(out, true)
			ones++
			continue
		}
		if ones != maxOnes {
			out = append(out, false)
		}
		ones = 0
	}
	return out
}

// NRZI encodes bits as level transitions: a zero toggles the line, a one
// holds it. The line starts high.
func NRZI(bits []bool) []bool {
	out := make([]bool, len(bits))
	level := true
	for i, b := range bits {
		if !b {
			level = !level
		}
		out[i] = level
	}
	return out
}

// DecodeNRZI recovers bits from line levels, assuming the same initial high
// level as NRZI.
func DecodeNRZI(levels []bool) []bool {
	out := make([]bool, len(levels))
	prev := true
	for i, l := range levels {
		out[i] = l == prev
		prev = l
	}
	return out
}
