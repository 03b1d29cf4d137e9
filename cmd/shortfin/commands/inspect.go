package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amd-chrissosa/SHARK-Platform/internal/snapshot"
	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot-file>",
	Short: "Print snapshot details without restoring it",
	Long: `Read the header of a storage snapshot and print its origin,
size, compression and checksum. The payload is not decoded, so
inspect works on snapshots too large to restore.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	info, err := snapshot.InspectFile(args[0])
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", args[0], err)
	}

	fmt.Printf("Snapshot: %s\n", args[0])
	fmt.Printf("  Version:  %d\n", info.Version)
	fmt.Printf("  Origin:   %s\n", info.Device)
	fmt.Printf("  Storage:  %s (%d bytes)\n", system.FormatBytes(info.Length), info.Length)
	fmt.Printf("  Payload:  %s on disk\n", system.FormatBytes(info.PayloadLen))
	if info.Compressed && info.PayloadLen > 0 {
		fmt.Printf("  Compress: lz4 (%.2fx)\n", float64(info.Length)/float64(info.PayloadLen))
	} else {
		fmt.Printf("  Compress: none\n")
	}
	fmt.Printf("  Checksum: %08x\n", info.Checksum)
	return nil
}
