package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amd-chrissosa/SHARK-Platform/internal/array"
	"github.com/amd-chrissosa/SHARK-Platform/internal/snapshot"
	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

var restoreDevice int

var restoreCmd = &cobra.Command{
	Use:   "restore <input-snapshot> <output-file>",
	Short: "Restore a storage snapshot to a file",
	Long: `Load a snapshot into host storage on a device, verifying its
checksum, and write the restored bytes to the output file.`,
	Args: cobra.ExactArgs(2),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().IntVar(&restoreDevice, "device", 0, "device to restore the storage on")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	sys, err := buildSystem()
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	dev, err := sys.Device(restoreDevice)
	if err != nil {
		return err
	}

	st, err := snapshot.Load(input, dev)
	if err != nil {
		return err
	}
	defer st.Release()

	err = st.WithMap(array.AccessRead, func(m *array.Mapping) error {
		view, err := m.View()
		if err != nil {
			return err
		}
		return os.WriteFile(output, view.Bytes(), 0644)
	})
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Printf("Restored %s (%s) to %s\n",
		input, system.FormatBytes(st.Length()), output)
	return nil
}
