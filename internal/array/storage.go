// Package array provides the storage and mapping layer for device
// memory: allocation of host-visible and device-only byte buffers,
// asynchronous pattern fills on the owning device's timeline, and scoped
// access-mode-tagged mappings over host-visible bytes.
package array

import (
	"fmt"
	"sync"

	"github.com/amd-chrissosa/SHARK-Platform/internal/device"
)

// Class is the storage class, fixed at allocation time.
type Class uint8

const (
	// ClassHost storage is host-addressable once producing operations
	// have retired.
	ClassHost Class = iota
	// ClassDevice storage is never host-addressable.
	ClassDevice
)

func (c Class) String() string {
	switch c {
	case ClassHost:
		return "host"
	case ClassDevice:
		return "device"
	default:
		return "unknown"
	}
}

// Access is a set of mapping access flags.
type Access uint8

const (
	// AccessRead requests a readable view.
	AccessRead Access = 1 << iota
	// AccessWrite requests a writable view.
	AccessWrite
	// AccessDiscard declares that the caller will fully overwrite the
	// contents, so existing bytes need not be preserved. Implies write.
	AccessDiscard
)

// Readable reports whether the flags include read access.
func (a Access) Readable() bool { return a&AccessRead != 0 }

// Writable reports whether the flags include write access. Discard
// implies write.
func (a Access) Writable() bool { return a&(AccessWrite|AccessDiscard) != 0 }

func (a Access) String() string {
	s := ""
	if a&AccessRead != 0 {
		s += "read|"
	}
	if a&AccessWrite != 0 {
		s += "write|"
	}
	if a&AccessDiscard != 0 {
		s += "discard|"
	}
	if s == "" {
		return "none"
	}
	return s[:len(s)-1]
}

// Storage is an allocated byte buffer bound to one device. The byte
// length and class are fixed at creation; the backing buffer is owned
// exclusively by the storage until Release.
type Storage struct {
	dev    *device.Device
	class  Class
	length int64

	mu       sync.Mutex
	data     []byte
	readers  int
	writers  int
	released bool
}

// AllocateHost allocates host-visible storage of exactly length bytes on
// dev. The bytes are addressable through a mapping once any producing
// operations have retired.
func AllocateHost(dev *device.Device, length int64) (*Storage, error) {
	return allocate(dev, ClassHost, length)
}

// AllocateDevice allocates device-only storage of exactly length bytes on
// dev. It can be filled but never mapped.
func AllocateDevice(dev *device.Device, length int64) (*Storage, error) {
	return allocate(dev, ClassDevice, length)
}

func allocate(dev *device.Device, class Class, length int64) (*Storage, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}

	arena := dev.HostMemory()
	if class == ClassDevice {
		arena = dev.DeviceMemory()
	}

	buf, err := arena.Alloc(length)
	if err != nil {
		return nil, fmt.Errorf("allocating %s storage: %w", class, err)
	}

	return &Storage{
		dev:    dev,
		class:  class,
		length: length,
		data:   buf,
	}, nil
}

// Length returns the storage extent in bytes.
func (s *Storage) Length() int64 { return s.length }

// Class returns the storage class.
func (s *Storage) Class() Class { return s.class }

// Device returns the owning device.
func (s *Storage) Device() *device.Device { return s.dev }

// Fill enqueues an asynchronous write of pattern tiled across the full
// storage extent on the owning device's timeline. The pattern length must
// be 1, 2, 4 or 8 bytes; this is validated synchronously, before any
// queue submission. Completion is only guaranteed after the owning
// device's Await; a final partial repetition is truncated to fit.
func (s *Storage) Fill(pattern []byte) error {
	switch len(pattern) {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("%w: got %d", ErrPatternLength, len(pattern))
	}

	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return fmt.Errorf("fill: %w", ErrStorageReleased)
	}
	s.mu.Unlock()

	// Own a copy: the caller may reuse its slice before the op runs.
	p := append([]byte(nil), pattern...)

	return s.dev.Enqueue(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.released {
			return fmt.Errorf("fill %d bytes: %w", s.length, ErrStorageReleased)
		}
		if s.writers > 0 {
			return fmt.Errorf("fill %d bytes: %w", s.length, ErrStorageBusy)
		}

		tile(s.data, p)
		return nil
	})
}

// Map acquires an access-mode-tagged view over the storage bytes. Only
// host-class storage can be mapped. At least one access flag must be
// set; AccessDiscard implies write access. The caller must Close the
// mapping (or use WithMap) before the storage is released.
func (s *Storage) Map(access Access) (*Mapping, error) {
	if access == 0 || access&^(AccessRead|AccessWrite|AccessDiscard) != 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAccess, access)
	}
	if s.class != ClassHost {
		return nil, fmt.Errorf("mapping %s storage: %w", s.class, ErrNotMappable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, fmt.Errorf("map: %w", ErrStorageReleased)
	}

	if access.Writable() {
		s.writers++
	} else {
		s.readers++
	}

	return &Mapping{
		storage: s,
		access:  access,
		data:    s.data,
		valid:   true,
	}, nil
}

// WithMap maps the storage, invokes fn, and closes the mapping on every
// exit path, panics included.
func (s *Storage) WithMap(access Access, fn func(*Mapping) error) error {
	m, err := s.Map(access)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

// Release returns the backing bytes to the owning arena. Idempotent.
// Mappings still open against the storage keep the old buffer alive but
// no longer observe it through the storage; closing every mapping first
// is the caller's responsibility.
func (s *Storage) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true
	s.data = nil

	arena := s.dev.HostMemory()
	if s.class == ClassDevice {
		arena = s.dev.DeviceMemory()
	}
	arena.Free(s.length)
	return nil
}

// unmap drops the mapping registration for the given access flags.
func (s *Storage) unmap(access Access) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if access.Writable() {
		s.writers--
	} else {
		s.readers--
	}
}

// tile repeats pattern across dst from offset 0, truncating the final
// repetition to fit. Doubling copy: dst[:n] always holds the tiled
// prefix, so each pass can replicate it in one copy.
func tile(dst, pattern []byte) {
	if len(dst) == 0 || len(pattern) == 0 {
		return
	}

	n := copy(dst, pattern)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}
