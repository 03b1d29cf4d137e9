package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amd-chrissosa/SHARK-Platform/internal/array"
	"github.com/amd-chrissosa/SHARK-Platform/internal/snapshot"
	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

var (
	dumpDevice     int
	dumpNoCompress bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <input-file> <output-snapshot>",
	Short: "Dump a file into a storage snapshot",
	Long: `Stage the input file in host storage on a device and serialize it
as a snapshot: checksummed, optionally LZ4-compressed, and restorable
on any system with "shortfin restore".`,
	Args: cobra.ExactArgs(2),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntVar(&dumpDevice, "device", 0, "device to stage the storage on")
	dumpCmd.Flags().BoolVar(&dumpNoCompress, "no-compress", false, "store the payload uncompressed")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	sys, err := buildSystem()
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	dev, err := sys.Device(dumpDevice)
	if err != nil {
		return err
	}

	st, err := array.AllocateHost(dev, int64(len(data)))
	if err != nil {
		return err
	}
	defer st.Release()

	err = st.WithMap(array.AccessDiscard, func(m *array.Mapping) error {
		buf, err := m.Bytes()
		if err != nil {
			return err
		}
		copy(buf, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("staging input: %w", err)
	}

	opts := snapshot.Options{Compress: cfg.Snapshot.Compress && !dumpNoCompress}
	if err := snapshot.Save(output, st, opts); err != nil {
		return err
	}

	written, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("inspecting snapshot: %w", err)
	}

	fmt.Printf("Dumped %s (%s) to %s (%s)\n",
		input, system.FormatBytes(int64(len(data))),
		output, system.FormatBytes(written.Size()))
	return nil
}
