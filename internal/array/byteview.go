package array

import "bytes"

// ByteView is an immutable view over mapped storage bytes. It exposes no
// mutating methods, so a read-only mapping cannot be written through it;
// accessors that hand bytes out return copies.
type ByteView struct {
	data []byte
}

// Len returns the view length in bytes.
func (v ByteView) Len() int {
	return len(v.data)
}

// At returns the byte at index i. It panics if i is out of range, the
// same as indexing a slice.
func (v ByteView) At(i int) byte {
	return v.data[i]
}

// Bytes returns a copy of the viewed bytes to prevent external mutation.
func (v ByteView) Bytes() []byte {
	c := make([]byte, len(v.data))
	copy(c, v.data)
	return c
}

// String returns the viewed bytes as a string (itself immutable).
func (v ByteView) String() string {
	return string(v.data)
}

// Equal reports whether the viewed bytes equal b.
func (v ByteView) Equal(b []byte) bool {
	return bytes.Equal(v.data, b)
}
