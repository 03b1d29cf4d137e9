// Package system assembles execution devices into a runnable system:
// construction from configuration, device lookup, system-wide barriers
// and orderly shutdown.
package system

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amd-chrissosa/SHARK-Platform/internal/config"
	"github.com/amd-chrissosa/SHARK-Platform/internal/device"
	"github.com/amd-chrissosa/SHARK-Platform/internal/logging"
)

var (
	ErrNoDevices    = errors.New("system requires at least one device")
	ErrDeviceIndex  = errors.New("device index out of range")
	ErrShutdownDone = errors.New("system has been shut down")
)

// System owns a fixed set of devices for its whole lifetime. Devices are
// created at Build and closed together at Shutdown.
type System struct {
	devices []*device.Device

	mu       sync.Mutex
	shutdown bool
}

// Builder accumulates system configuration before construction.
type Builder struct {
	cfg config.SystemConfig
}

// NewBuilder creates a builder for the given system configuration.
func NewBuilder(cfg config.SystemConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build constructs the system and its devices.
func (b *Builder) Build() (*System, error) {
	cfg := b.cfg
	if cfg.DeviceCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoDevices, cfg.DeviceCount)
	}
	if cfg.QueueDepth < 1 {
		cfg.QueueDepth = device.DefaultOptions().QueueDepth
	}

	if cfg.HostBytes == 0 {
		// Unbounded host arenas: record what the host actually has, so
		// overcommit is at least visible in the logs.
		if info, err := ProbeHostMemory(); err == nil {
			logging.WithFields(map[string]interface{}{
				"host_total":     FormatBytes(info.TotalBytes),
				"host_available": FormatBytes(info.AvailableBytes),
			}).Debug("host arenas unbounded")
		}
	}

	devices := make([]*device.Device, cfg.DeviceCount)
	for i := range devices {
		devices[i] = device.New(i, device.Options{
			HostBytes:   cfg.HostBytes,
			DeviceBytes: cfg.DeviceBytes,
			QueueDepth:  cfg.QueueDepth,
		})
	}

	logging.WithFields(map[string]interface{}{
		"devices":     cfg.DeviceCount,
		"queue_depth": cfg.QueueDepth,
	}).Info("system started")

	return &System{devices: devices}, nil
}

// Device returns the device at the given ordinal.
func (s *System) Device(i int) (*device.Device, error) {
	if i < 0 || i >= len(s.devices) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrDeviceIndex, i, len(s.devices))
	}
	return s.devices[i], nil
}

// Devices returns all devices in ordinal order. The returned slice is
// owned by the system; callers must not modify it.
func (s *System) Devices() []*device.Device {
	return s.devices
}

// DeviceCount returns the number of devices in the system.
func (s *System) DeviceCount() int {
	return len(s.devices)
}

// AwaitAll runs a barrier on every device and blocks until all have
// drained. Every device is awaited even after a failure; the first
// fault is returned.
func (s *System) AwaitAll(ctx context.Context) error {
	s.mu.Lock()
	down := s.shutdown
	s.mu.Unlock()
	if down {
		return ErrShutdownDone
	}

	var first error
	for _, dev := range s.devices {
		if err := dev.Await(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats returns a snapshot of every device in ordinal order.
func (s *System) Stats() []device.Stats {
	out := make([]device.Stats, len(s.devices))
	for i, dev := range s.devices {
		out[i] = dev.Stats()
	}
	return out
}

// Shutdown drains and closes every device. Idempotent.
func (s *System) Shutdown() {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return
	}
	s.shutdown = true
	s.mu.Unlock()

	for _, dev := range s.devices {
		dev.Close()
	}
	logging.WithField("devices", len(s.devices)).Info("system shut down")
}
