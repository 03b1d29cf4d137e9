package system

import (
	"testing"
)

func TestProbeHostMemory(t *testing.T) {
	info, err := ProbeHostMemory()
	if err != nil {
		t.Fatalf("ProbeHostMemory failed: %v", err)
	}

	if info.TotalBytes <= 0 {
		t.Errorf("Expected positive total bytes, got %d", info.TotalBytes)
	}

	if info.AvailableBytes < 0 {
		t.Errorf("Expected non-negative available bytes, got %d", info.AvailableBytes)
	}

	if info.AvailableBytes > info.TotalBytes {
		t.Errorf("Available bytes (%d) cannot exceed total bytes (%d)",
			info.AvailableBytes, info.TotalBytes)
	}
}

func TestUsableHostBytes(t *testing.T) {
	usable, err := UsableHostBytes()
	if err != nil {
		t.Fatalf("UsableHostBytes failed: %v", err)
	}

	if usable < 0 {
		t.Errorf("Expected non-negative usable memory, got %d", usable)
	}

	info, _ := ProbeHostMemory()
	if usable > info.TotalBytes {
		t.Errorf("Usable memory (%d) cannot exceed total (%d)", usable, info.TotalBytes)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{1024 * 1024 * 1024, "1.0 GiB"},
		{1536 * 1024 * 1024, "1.5 GiB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.bytes)
		if result != tt.expected {
			t.Errorf("FormatBytes(%d) = %s; want %s", tt.bytes, result, tt.expected)
		}
	}
}

func TestPlatform(t *testing.T) {
	if Platform() == "" {
		t.Error("Expected non-empty platform string")
	}
	if Architecture() == "" {
		t.Error("Expected non-empty architecture string")
	}
}
