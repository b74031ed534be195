// Package textutil holds byte-level checks applied to file contents before
// they reach a driver.
package textutil

import "bytes"

// BinarySniffLength is the maximum number of bytes scanned for a null byte.
const BinarySniffLength = 8000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsBinary reports whether data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// StripBOM drops a leading UTF-8 byte order mark.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
