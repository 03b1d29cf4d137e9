package system

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

func probeHostMemory() (*MemInfo, error) {
	out, err := exec.Command("sysctl", "-n", "hw.memsize").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to query hw.memsize: %w", err)
	}

	total, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hw.memsize: %w", err)
	}

	vmOut, err := exec.Command("vm_stat").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run vm_stat: %w", err)
	}

	var freePages, inactivePages int64
	pageSize := int64(4096)

	for _, line := range strings.Split(string(vmOut), "\n") {
		fields := strings.Fields(line)
		switch {
		case strings.HasPrefix(line, "Pages free:") && len(fields) >= 3:
			freePages, _ = strconv.ParseInt(strings.TrimSuffix(fields[2], "."), 10, 64)
		case strings.HasPrefix(line, "Pages inactive:") && len(fields) >= 3:
			inactivePages, _ = strconv.ParseInt(strings.TrimSuffix(fields[2], "."), 10, 64)
		case strings.HasPrefix(line, "page size of") && len(fields) >= 4:
			pageSize, _ = strconv.ParseInt(fields[3], 10, 64)
		}
	}

	// Free plus inactive pages approximates reclaimable memory.
	available := (freePages + inactivePages) * pageSize

	return &MemInfo{
		TotalBytes:     total,
		AvailableBytes: available,
		UsedBytes:      total - available,
	}, nil
}
