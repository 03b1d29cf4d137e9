package array

// DType represents the element type of a device array
type DType int

const (
	Uint8   DType = iota // 8-bit unsigned integer
	Int8                 // 8-bit signed integer
	Uint16               // 16-bit unsigned integer
	Int16                // 16-bit signed integer
	Uint32               // 32-bit unsigned integer
	Int32                // 32-bit signed integer
	Uint64               // 64-bit unsigned integer
	Int64                // 64-bit signed integer
	Float16              // 16-bit floating point
	Float32              // 32-bit floating point
	Float64              // 64-bit floating point
)

// String returns the name of the element type
func (dt DType) String() string {
	switch dt {
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Uint32:
		return "uint32"
	case Int32:
		return "int32"
	case Uint64:
		return "uint64"
	case Int64:
		return "int64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// BytesPerElement returns the number of bytes per element for this type
func (dt DType) BytesPerElement() int {
	switch dt {
	case Uint8, Int8:
		return 1
	case Uint16, Int16, Float16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	default:
		return 0
	}
}

// elementCount returns the number of elements a shape spans. A scalar
// (empty shape) counts as one element.
func elementCount(shape []int) int {
	count := 1
	for _, dim := range shape {
		count *= dim
	}
	return count
}

// validShape reports whether every dimension is non-negative.
func validShape(shape []int) bool {
	for _, dim := range shape {
		if dim < 0 {
			return false
		}
	}
	return true
}
