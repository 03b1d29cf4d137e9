package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amd-chrissosa/SHARK-Platform/internal/array"
	"github.com/amd-chrissosa/SHARK-Platform/internal/device"
	"github.com/amd-chrissosa/SHARK-Platform/internal/snapshot"
	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

var selftestSize int64

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Exercise storage, fills, mappings and snapshots",
	Long: `Run a functional pass over every device in the configured system:
device-queue fills, mapping write-through, host-side fills, device-only
storage, snapshot roundtrips and arena accounting.`,
	RunE: runSelftest,
}

func init() {
	selftestCmd.Flags().Int64Var(&selftestSize, "size", 1<<20, "bytes of storage per pass")
	rootCmd.AddCommand(selftestCmd)
}

type selftestPass struct {
	name string
	run  func(ctx context.Context, dev *device.Device, size int64) error
}

func runSelftest(cmd *cobra.Command, args []string) error {
	if selftestSize < 1 {
		return fmt.Errorf("size must be at least 1 byte, got %d", selftestSize)
	}

	sys, err := buildSystem()
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	fmt.Printf("Running selftest on %d device(s), %s per pass\n\n",
		sys.DeviceCount(), system.FormatBytes(selftestSize))

	passes := []selftestPass{
		{"device fill", testDeviceFill},
		{"mapping write-through", testWriteThrough},
		{"host fill", testHostFill},
		{"device-only storage", testDeviceOnly},
		{"snapshot roundtrip", testSnapshot},
		{"release accounting", testRelease},
	}

	ctx := context.Background()
	failed := 0

	for _, dev := range sys.Devices() {
		fmt.Printf("%s:\n", dev.Name())
		for _, p := range passes {
			if err := p.run(ctx, dev, selftestSize); err != nil {
				fmt.Printf("  ❌ %s: %v\n", p.name, err)
				failed++
				continue
			}
			fmt.Printf("  ✅ %s\n", p.name)
		}
		fmt.Println()
	}

	if failed > 0 {
		return fmt.Errorf("%d selftest pass(es) failed", failed)
	}
	fmt.Println("All passes succeeded")
	return nil
}

func testDeviceFill(ctx context.Context, dev *device.Device, size int64) error {
	st, err := array.AllocateHost(dev, size)
	if err != nil {
		return err
	}
	defer st.Release()

	pattern := []byte{0xA5, 0x5A, 0xFF, 0x00}
	if err := st.Fill(pattern); err != nil {
		return err
	}
	if err := dev.Await(ctx); err != nil {
		return err
	}

	return verifyStorage(st, repeatPattern(pattern, size))
}

func testWriteThrough(ctx context.Context, dev *device.Device, size int64) error {
	st, err := array.AllocateHost(dev, size)
	if err != nil {
		return err
	}
	defer st.Release()

	err = st.WithMap(array.AccessWrite, func(m *array.Mapping) error {
		buf, err := m.Bytes()
		if err != nil {
			return err
		}
		for i := range buf {
			buf[i] = byte(i)
		}
		return nil
	})
	if err != nil {
		return err
	}

	want := make([]byte, size)
	for i := range want {
		want[i] = byte(i)
	}
	return verifyStorage(st, want)
}

func testHostFill(ctx context.Context, dev *device.Device, size int64) error {
	st, err := array.AllocateHost(dev, size)
	if err != nil {
		return err
	}
	defer st.Release()

	// Host-side fills take any pattern length, not just the
	// device-queue sizes.
	pattern := []byte{0x01, 0x02, 0x03}
	err = st.WithMap(array.AccessDiscard, func(m *array.Mapping) error {
		return m.Fill(pattern)
	})
	if err != nil {
		return err
	}

	return verifyStorage(st, repeatPattern(pattern, size))
}

func testDeviceOnly(ctx context.Context, dev *device.Device, size int64) error {
	st, err := array.AllocateDevice(dev, size)
	if err != nil {
		return err
	}
	defer st.Release()

	if err := st.Fill([]byte{0xEE, 0xEE}); err != nil {
		return err
	}
	if err := dev.Await(ctx); err != nil {
		return err
	}

	if _, err := st.Map(array.AccessRead); !errors.Is(err, array.ErrNotMappable) {
		return fmt.Errorf("device-only storage must not be mappable, got %v", err)
	}
	return nil
}

func testSnapshot(ctx context.Context, dev *device.Device, size int64) error {
	st, err := array.AllocateHost(dev, size)
	if err != nil {
		return err
	}
	defer st.Release()

	pattern := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x00}
	if err := st.Fill(pattern); err != nil {
		return err
	}
	if err := dev.Await(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := snapshot.Write(&buf, st, snapshot.Options{Compress: cfg.Snapshot.Compress}); err != nil {
		return err
	}

	restored, err := snapshot.Read(&buf, dev)
	if err != nil {
		return err
	}
	defer restored.Release()

	return verifyStorage(restored, repeatPattern(pattern, size))
}

func testRelease(ctx context.Context, dev *device.Device, size int64) error {
	hostBefore := dev.HostMemory().Used()
	deviceBefore := dev.DeviceMemory().Used()

	host, err := array.AllocateHost(dev, size)
	if err != nil {
		return err
	}
	devOnly, err := array.AllocateDevice(dev, size)
	if err != nil {
		host.Release()
		return err
	}

	host.Release()
	devOnly.Release()

	if got := dev.HostMemory().Used(); got != hostBefore {
		return fmt.Errorf("host arena leaked: %d bytes before, %d after", hostBefore, got)
	}
	if got := dev.DeviceMemory().Used(); got != deviceBefore {
		return fmt.Errorf("device arena leaked: %d bytes before, %d after", deviceBefore, got)
	}
	return nil
}

// verifyStorage maps st read-only and compares its bytes against want.
func verifyStorage(st *array.Storage, want []byte) error {
	return st.WithMap(array.AccessRead, func(m *array.Mapping) error {
		view, err := m.View()
		if err != nil {
			return err
		}
		if !view.Equal(want) {
			return fmt.Errorf("storage contents mismatch at %d bytes", st.Length())
		}
		return nil
	})
}

// repeatPattern tiles pattern to exactly n bytes.
func repeatPattern(pattern []byte, n int64) []byte {
	out := bytes.Repeat(pattern, int(n/int64(len(pattern)))+1)
	return out[:n]
}
