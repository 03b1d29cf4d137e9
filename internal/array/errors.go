package array

import "errors"

// Configuration errors: detected synchronously, before any device
// interaction, and always correctable by the caller.
var (
	ErrNilDevice      = errors.New("storage requires a device")
	ErrNegativeLength = errors.New("storage length must not be negative")
	ErrPatternLength  = errors.New("fill pattern length is not one of the supported values (1, 2, 4, 8)")
	ErrEmptyPattern   = errors.New("fill pattern must not be empty")
	ErrNoAccess       = errors.New("mapping requires at least one of read, write, or discard access")
	ErrBadShape       = errors.New("shape dimensions must not be negative")
)

// Capability errors: the operation is illegal for the target's class or
// access mode.
var (
	ErrNotMappable = errors.New("device-only storage cannot be mapped")
	ErrNotWritable = errors.New("mapping is not writable")
	ErrNotReadable = errors.New("mapping is not readable")
)

// Invalid-state errors: the target has already been closed or released.
var (
	ErrMappingClosed   = errors.New("mapping has been closed")
	ErrStorageReleased = errors.New("storage has been released")
)

// ErrStorageBusy is a device fault: a queued operation found the storage
// exclusively checked out for host mutation. It surfaces at the barrier
// await that observes the operation, not at enqueue time.
var ErrStorageBusy = errors.New("storage is checked out for host mutation")
