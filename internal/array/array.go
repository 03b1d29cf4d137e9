package array

import (
	"fmt"

	"github.com/amd-chrissosa/SHARK-Platform/internal/device"
)

// DeviceArray is a shaped, typed view over one storage. The shape and
// element type fix the byte extent at construction; all data movement
// goes through the underlying storage.
type DeviceArray struct {
	storage *Storage
	shape   []int
	dtype   DType
}

// NewHostArray allocates a device array backed by host-visible storage.
func NewHostArray(dev *device.Device, shape []int, dtype DType) (*DeviceArray, error) {
	return newArray(dev, ClassHost, shape, dtype)
}

// NewDeviceArray allocates a device array backed by device-only storage.
func NewDeviceArray(dev *device.Device, shape []int, dtype DType) (*DeviceArray, error) {
	return newArray(dev, ClassDevice, shape, dtype)
}

func newArray(dev *device.Device, class Class, shape []int, dtype DType) (*DeviceArray, error) {
	if !validShape(shape) {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, shape)
	}

	length := int64(elementCount(shape)) * int64(dtype.BytesPerElement())
	storage, err := allocate(dev, class, length)
	if err != nil {
		return nil, fmt.Errorf("%s%v array: %w", dtype, shape, err)
	}

	return &DeviceArray{
		storage: storage,
		shape:   shape,
		dtype:   dtype,
	}, nil
}

// Storage returns the backing storage
func (a *DeviceArray) Storage() *Storage {
	return a.storage
}

// Shape returns the array dimensions
func (a *DeviceArray) Shape() []int {
	return a.shape
}

// DType returns the element type
func (a *DeviceArray) DType() DType {
	return a.dtype
}

// Device returns the owning device
func (a *DeviceArray) Device() *device.Device {
	return a.storage.Device()
}

// Elements returns the number of elements the array holds
func (a *DeviceArray) Elements() int {
	return elementCount(a.shape)
}

// ByteLength returns the array extent in bytes
func (a *DeviceArray) ByteLength() int64 {
	return a.storage.Length()
}

// Fill enqueues an asynchronous fill of the backing storage. The same
// pattern-length rules as Storage.Fill apply.
func (a *DeviceArray) Fill(pattern []byte) error {
	return a.storage.Fill(pattern)
}

// Map acquires a mapping over the backing storage.
func (a *DeviceArray) Map(access Access) (*Mapping, error) {
	return a.storage.Map(access)
}

// WithMap maps the backing storage for the duration of fn.
func (a *DeviceArray) WithMap(access Access, fn func(*Mapping) error) error {
	return a.storage.WithMap(access, fn)
}

// Release returns the backing storage to its arena.
func (a *DeviceArray) Release() error {
	return a.storage.Release()
}

func (a *DeviceArray) String() string {
	return fmt.Sprintf("%s %s%v on %s", a.storage.Class(), a.dtype, a.shape, a.storage.Device().Name())
}
