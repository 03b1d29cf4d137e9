package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/amd-chrissosa/SHARK-Platform/internal/array"
	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
	"github.com/amd-chrissosa/SHARK-Platform/internal/tui"
)

var (
	monitorInterval time.Duration
	monitorDemo     bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard over the system devices",
	Long: `Open a terminal dashboard showing per-device queue counters and
arena usage, refreshed continuously. With --demo, background fill
traffic is generated so the counters move.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", time.Second, "refresh interval")
	monitorCmd.Flags().BoolVar(&monitorDemo, "demo", false, "generate background fill traffic")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem()
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	if monitorDemo {
		stop := make(chan struct{})
		defer close(stop)
		go demoTraffic(sys, stop)
	}

	p := tea.NewProgram(tui.NewMonitorModel(sys, monitorInterval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running monitor: %w", err)
	}
	return nil
}

// demoTraffic cycles allocate/fill/await/release across all devices
// until stop is closed. Errors are ignored: traffic against a system
// mid-shutdown simply stops landing.
func demoTraffic(sys *system.System, stop <-chan struct{}) {
	ticker := time.NewTicker(150 * time.Millisecond)
	defer ticker.Stop()

	ctx := context.Background()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, dev := range sys.Devices() {
				st, err := array.AllocateHost(dev, 1<<16)
				if err != nil {
					continue
				}
				if err := st.Fill([]byte{0xA5}); err == nil {
					dev.Await(ctx)
				}
				st.Release()
			}
		}
	}
}
