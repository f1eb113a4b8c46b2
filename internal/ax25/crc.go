package ax25

const (
	crcPoly = 0x8408
	crcInit = 0xffff
)

// CRC16 computes the AX.25 frame check sequence: reflected CCITT with an
// all-ones preset, complemented at the end.
func CRC16(data []byte) uint16 {
	crc := uint16(crcInit)
	for _, b := range data {
		crc ^= uint16(b)
		for range 8 {
			if crc&1 != 0 {
				crc = crc>>1 ^ crcPoly
			} else {
				crc >>= 1
			}
		}
	}
	return ^crc
}

// AppendCRC appends the FCS of frame, low byte first.
func AppendCRC(frame []byte) []byte {
	fcs := CRC16(frame)
	return append(frame, byte(fcs), byte(fcs>>8))
}
