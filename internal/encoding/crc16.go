package encoding

// CRC16XMODEM computes CRC-16/XMODEM (poly 0x1021, init 0, no reflection),
// the checksum used by Stellar StrKey and TON user-friendly addresses.
func CRC16XMODEM(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
