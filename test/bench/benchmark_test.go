package bench

import (
	"bytes"
	"context"
	"testing"

	"github.com/amd-chrissosa/SHARK-Platform/internal/array"
	"github.com/amd-chrissosa/SHARK-Platform/internal/config"
	"github.com/amd-chrissosa/SHARK-Platform/internal/device"
	"github.com/amd-chrissosa/SHARK-Platform/internal/snapshot"
	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

const benchStorageSize = 1 << 20

// benchDevice brings up a single-device system and returns its device
func benchDevice(b *testing.B) *device.Device {
	b.Helper()

	sys, err := system.NewBuilder(config.SystemConfig{
		DeviceCount: 1,
		QueueDepth:  256,
	}).Build()
	if err != nil {
		b.Fatalf("Failed to build system: %v", err)
	}
	b.Cleanup(func() { sys.Shutdown() })

	return sys.Devices()[0]
}

// BenchmarkDeviceFill benchmarks pattern fills through the device queue
func BenchmarkDeviceFill(b *testing.B) {
	dev := benchDevice(b)
	ctx := context.Background()

	st, err := array.AllocateHost(dev, benchStorageSize)
	if err != nil {
		b.Fatalf("Failed to allocate storage: %v", err)
	}
	defer st.Release()

	pattern := []byte{0xA5, 0x5A, 0xFF, 0x00}

	b.SetBytes(benchStorageSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := st.Fill(pattern); err != nil {
			b.Fatalf("Fill failed: %v", err)
		}
		if err := dev.Await(ctx); err != nil {
			b.Fatalf("Await failed: %v", err)
		}
	}
}

// BenchmarkAwaitBarrier benchmarks barrier latency on an idle queue
func BenchmarkAwaitBarrier(b *testing.B) {
	dev := benchDevice(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := dev.Await(ctx); err != nil {
			b.Fatalf("Await failed: %v", err)
		}
	}
}

// BenchmarkMappingWriteThrough benchmarks writing storage through a mapping
func BenchmarkMappingWriteThrough(b *testing.B) {
	dev := benchDevice(b)

	st, err := array.AllocateHost(dev, benchStorageSize)
	if err != nil {
		b.Fatalf("Failed to allocate storage: %v", err)
	}
	defer st.Release()

	payload := bytes.Repeat([]byte("shortfin"), benchStorageSize/8)

	b.SetBytes(benchStorageSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := st.WithMap(array.AccessDiscard, func(m *array.Mapping) error {
			buf, err := m.Bytes()
			if err != nil {
				return err
			}
			copy(buf, payload)
			return nil
		})
		if err != nil {
			b.Fatalf("WithMap failed: %v", err)
		}
	}
}

// BenchmarkHostPatternFill benchmarks host-side fills with an odd pattern length
func BenchmarkHostPatternFill(b *testing.B) {
	dev := benchDevice(b)

	st, err := array.AllocateHost(dev, benchStorageSize)
	if err != nil {
		b.Fatalf("Failed to allocate storage: %v", err)
	}
	defer st.Release()

	pattern := []byte{0x01, 0x02, 0x03}

	b.SetBytes(benchStorageSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := st.WithMap(array.AccessDiscard, func(m *array.Mapping) error {
			return m.Fill(pattern)
		})
		if err != nil {
			b.Fatalf("Fill failed: %v", err)
		}
	}
}

// BenchmarkSnapshotEncode benchmarks snapshot serialization with compression
func BenchmarkSnapshotEncode(b *testing.B) {
	dev := benchDevice(b)
	ctx := context.Background()

	st, err := array.AllocateHost(dev, benchStorageSize)
	if err != nil {
		b.Fatalf("Failed to allocate storage: %v", err)
	}
	defer st.Release()

	if err := st.Fill([]byte{0xCA, 0xFE, 0xBA, 0xBE}); err != nil {
		b.Fatalf("Fill failed: %v", err)
	}
	if err := dev.Await(ctx); err != nil {
		b.Fatalf("Await failed: %v", err)
	}

	var buf bytes.Buffer

	b.SetBytes(benchStorageSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := snapshot.Write(&buf, st, snapshot.Options{Compress: true}); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

// BenchmarkSnapshotDecode benchmarks snapshot deserialization
func BenchmarkSnapshotDecode(b *testing.B) {
	dev := benchDevice(b)
	ctx := context.Background()

	st, err := array.AllocateHost(dev, benchStorageSize)
	if err != nil {
		b.Fatalf("Failed to allocate storage: %v", err)
	}
	defer st.Release()

	if err := st.Fill([]byte{0xCA, 0xFE, 0xBA, 0xBE}); err != nil {
		b.Fatalf("Fill failed: %v", err)
	}
	if err := dev.Await(ctx); err != nil {
		b.Fatalf("Await failed: %v", err)
	}

	var buf bytes.Buffer
	if err := snapshot.Write(&buf, st, snapshot.Options{Compress: true}); err != nil {
		b.Fatalf("Write failed: %v", err)
	}
	encoded := buf.Bytes()

	b.SetBytes(benchStorageSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		restored, err := snapshot.Read(bytes.NewReader(encoded), dev)
		if err != nil {
			b.Fatalf("Read failed: %v", err)
		}
		restored.Release()
	}
}
