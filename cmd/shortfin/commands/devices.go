package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Show system devices and memory",
	Long: `Bring up the configured system and display each device with its
queue counters and arena usage, plus the physical memory of the host
the system runs on.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println("  Shortfin System Devices")
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println()

	if info, err := system.ProbeHostMemory(); err == nil {
		fmt.Printf("Host Memory: %s total, %s available\n",
			system.FormatBytes(info.TotalBytes), system.FormatBytes(info.AvailableBytes))
	} else {
		fmt.Printf("Host Memory: unavailable (%v)\n", err)
	}
	fmt.Printf("Platform: %s/%s\n\n", system.Platform(), system.Architecture())

	sys, err := buildSystem()
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	for _, st := range sys.Stats() {
		fmt.Printf("✅ %s\n", st.Name)
		fmt.Printf("   Host arena:   %s\n", formatUsage(st.HostUsed, st.HostCapacity))
		fmt.Printf("   Device arena: %s\n", formatUsage(st.DeviceUsed, st.DeviceCapacity))
		fmt.Printf("   Queue:        %d pending, %d submitted, %d retired\n",
			st.Pending, st.Submitted, st.Retired)
		fmt.Println()
	}

	fmt.Println("═══════════════════════════════════════════════════════")
	return nil
}
