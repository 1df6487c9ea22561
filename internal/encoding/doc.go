// Package encoding implements the text and checksum encodings used by the
// supported chains: Base58 and Base58Check in the Bitcoin and Ripple
// alphabets, Bech32 with SegWit v0 programs, unpadded Base32, Base64, hex,
// and CRC16-XMODEM.
//
// Every decoder reports malformed input as errors.ErrFormat and checksum
// mismatches as errors.ErrChecksum. No decoder panics on external input.
package encoding
