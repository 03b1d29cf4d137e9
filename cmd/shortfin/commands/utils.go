package commands

import (
	"fmt"

	"github.com/amd-chrissosa/SHARK-Platform/internal/system"
)

// buildSystem constructs the runtime system from the loaded
// configuration, honoring the --devices override.
func buildSystem() (*system.System, error) {
	syscfg := cfg.System
	if deviceOverride > 0 {
		syscfg.DeviceCount = deviceOverride
	}

	sys, err := system.NewBuilder(syscfg).Build()
	if err != nil {
		return nil, fmt.Errorf("building system: %w", err)
	}
	return sys, nil
}

// formatUsage renders arena usage as "used / capacity"; unbounded
// arenas show usage only.
func formatUsage(used, capacity int64) string {
	if capacity <= 0 {
		return fmt.Sprintf("%s (unbounded)", system.FormatBytes(used))
	}
	return fmt.Sprintf("%s / %s", system.FormatBytes(used), system.FormatBytes(capacity))
}
