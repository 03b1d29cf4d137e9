package array

import (
	"fmt"
)

// Mapping is a host view over the bytes of one host-class storage,
// tagged with the access flags it was acquired with. Writes through a
// writable mapping land directly in the storage bytes. A mapping is
// valid from Map until Close; the storage must outlive it.
type Mapping struct {
	storage *Storage
	access  Access

	// A mapping belongs to one goroutine; it is not safe for
	// concurrent use. The registration it holds against the storage is
	// what the storage synchronizes on.
	valid bool
	data  []byte
}

// Valid reports whether the mapping is still open.
func (m *Mapping) Valid() bool { return m.valid }

// Access returns the access flags the mapping was acquired with.
func (m *Mapping) Access() Access { return m.access }

// Len returns the mapped extent in bytes, or 0 once closed.
func (m *Mapping) Len() int {
	if !m.valid {
		return 0
	}
	return len(m.data)
}

// View returns a read-only snapshot view of the mapped bytes. The view
// hands out copies, so it cannot be used to mutate the storage.
func (m *Mapping) View() (ByteView, error) {
	if !m.valid {
		return ByteView{}, fmt.Errorf("view: %w", ErrMappingClosed)
	}
	if !m.access.Readable() {
		return ByteView{}, fmt.Errorf("%s mapping: %w", m.access, ErrNotReadable)
	}
	return ByteView{data: m.data}, nil
}

// Bytes returns the live mapped slice for mutation. Writes are visible
// in the storage immediately, with no flush step.
func (m *Mapping) Bytes() ([]byte, error) {
	if !m.valid {
		return nil, fmt.Errorf("bytes: %w", ErrMappingClosed)
	}
	if !m.access.Writable() {
		return nil, fmt.Errorf("%s mapping: %w", m.access, ErrNotWritable)
	}
	return m.data, nil
}

// Fill writes pattern repeatedly across the full mapped extent,
// truncating the final repetition to fit. Unlike the device-side fill,
// any pattern length of at least one byte is accepted: the write happens
// synchronously on the host, so no queue-side constraint applies.
func (m *Mapping) Fill(pattern []byte) error {
	if !m.valid {
		return fmt.Errorf("fill: %w", ErrMappingClosed)
	}
	if !m.access.Writable() {
		return fmt.Errorf("%s mapping: %w", m.access, ErrNotWritable)
	}
	if len(pattern) == 0 {
		return ErrEmptyPattern
	}
	tile(m.data, pattern)
	return nil
}

// Close invalidates the mapping and drops its registration with the
// storage. Idempotent. Slices previously handed out by Bytes remain
// usable as plain memory but no longer represent the mapping.
func (m *Mapping) Close() error {
	if !m.valid {
		return nil
	}
	m.valid = false
	m.data = nil
	m.storage.unmap(m.access)
	return nil
}
