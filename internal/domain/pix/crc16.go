package pix

import "fmt"

// crc16Polynomial is the CCITT polynomial used by the EMV QR specification
const crc16Polynomial = 0x1021

// CRC16 computes the CRC16/CCITT-FALSE checksum of the payload and renders it
// as 4 uppercase hex digits. The register starts at 0xFFFF, bytes are folded
// in MSB-first and there is no final XOR.
func CRC16(payload string) string {
	crc := uint16(0xFFFF)
	for i := 0; i < len(payload); i++ {
		crc ^= uint16(payload[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crc16Polynomial
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}
