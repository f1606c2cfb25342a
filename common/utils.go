package common

import (
	"encoding/binary"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Float32Bytes packs float32 values little-endian, 4 bytes each, for buffer upload.
//
// Parameters:
//   - values: the values to pack
//
// Returns:
//   - []byte: the packed bytes
func Float32Bytes(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Uint32Bytes packs uint32 values little-endian, 4 bytes each, for index buffer upload.
//
// Parameters:
//   - values: the values to pack
//
// Returns:
//   - []byte: the packed bytes
func Uint32Bytes(values []uint32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

// BytesToFloat32 unpacks little-endian float32 values. Trailing bytes that do not form a full value are ignored.
func BytesToFloat32(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

// BytesToUint32 unpacks little-endian uint32 values. Trailing bytes that do not form a full value are ignored.
func BytesToUint32(buf []byte) []uint32 {
	out := make([]uint32, len(buf)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return out
}
