package system

import (
	"fmt"
	"runtime"
)

// MemInfo describes physical host memory at probe time.
type MemInfo struct {
	TotalBytes     int64
	AvailableBytes int64
	UsedBytes      int64
}

// ProbeHostMemory reports total and available physical memory on the
// host. The probe is platform-specific; see hostmem_*.go.
func ProbeHostMemory() (*MemInfo, error) {
	return probeHostMemory()
}

// UsableHostBytes returns the memory budget safe to commit to host
// arenas: available physical memory minus a fixed reserve for the OS
// and other processes.
func UsableHostBytes() (int64, error) {
	info, err := ProbeHostMemory()
	if err != nil {
		return 0, err
	}

	const reserve = int64(2) << 30
	if info.AvailableBytes < reserve {
		return 0, nil
	}
	return info.AvailableBytes - reserve, nil
}

// FormatBytes formats bytes as human-readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Platform returns the current platform
func Platform() string {
	return runtime.GOOS
}

// Architecture returns the system architecture
func Architecture() string {
	return runtime.GOARCH
}
