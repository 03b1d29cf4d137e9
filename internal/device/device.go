// Package device models an execution device: an ordered operation
// timeline plus byte-accounted host and device memory arenas. It is the
// allocation target and synchronization point the storage layer builds on.
package device

import (
	"context"
	"fmt"

	"github.com/amd-chrissosa/SHARK-Platform/internal/logging"
)

// Options configures a device at construction time.
type Options struct {
	// HostBytes caps the host-visible arena (0 = unbounded).
	HostBytes int64
	// DeviceBytes caps the device-only arena (0 = unbounded).
	DeviceBytes int64
	// QueueDepth is the timeline submission queue depth.
	QueueDepth int
}

// DefaultOptions returns sensible defaults for a local device.
func DefaultOptions() Options {
	return Options{
		HostBytes:   0,
		DeviceBytes: 1 << 30,
		QueueDepth:  256,
	}
}

// Device is a single execution target. All operations enqueued on it
// retire in order; Await is the only synchronization point.
type Device struct {
	name    string
	ordinal int

	hostMem   *Arena
	deviceMem *Arena
	timeline  *Timeline
}

// Stats is a point-in-time snapshot of device activity.
type Stats struct {
	Name           string
	Submitted      uint64
	Retired        uint64
	Pending        uint64
	HostUsed       int64
	HostCapacity   int64
	DeviceUsed     int64
	DeviceCapacity int64
}

// New creates a device with the given ordinal and options.
func New(ordinal int, opts Options) *Device {
	name := fmt.Sprintf("local:%d", ordinal)

	d := &Device{
		name:      name,
		ordinal:   ordinal,
		hostMem:   NewArena(name+" host", opts.HostBytes),
		deviceMem: NewArena(name+" device", opts.DeviceBytes),
		timeline:  newTimeline(name, opts.QueueDepth),
	}

	logging.WithFields(map[string]interface{}{
		"device":       name,
		"host_bytes":   opts.HostBytes,
		"device_bytes": opts.DeviceBytes,
		"queue_depth":  opts.QueueDepth,
	}).Debug("device created")

	return d
}

// Name returns the device name, e.g. "local:0".
func (d *Device) Name() string { return d.name }

// Ordinal returns the device index within its system.
func (d *Device) Ordinal() int { return d.ordinal }

// HostMemory returns the host-visible arena.
func (d *Device) HostMemory() *Arena { return d.hostMem }

// DeviceMemory returns the device-only arena.
func (d *Device) DeviceMemory() *Arena { return d.deviceMem }

// Enqueue submits an operation onto the device timeline. The operation
// runs asynchronously, after everything submitted before it.
func (d *Device) Enqueue(run func() error) error {
	return d.timeline.Enqueue(run)
}

// Await blocks until every operation enqueued before the call has
// retired. It returns the first fault among those operations, wrapped
// with the device identity, or the context error if ctx is done first.
// Operations enqueued after Await is called are not observed.
func (d *Device) Await(ctx context.Context) error {
	done, err := d.timeline.Barrier()
	if err != nil {
		return fmt.Errorf("device %s: %w", d.name, err)
	}

	select {
	case fault := <-done:
		if fault != nil {
			return fmt.Errorf("device %s: %w", d.name, fault)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current queue and arena usage.
func (d *Device) Stats() Stats {
	return Stats{
		Name:           d.name,
		Submitted:      d.timeline.Submitted(),
		Retired:        d.timeline.Retired(),
		Pending:        d.timeline.Pending(),
		HostUsed:       d.hostMem.Used(),
		HostCapacity:   d.hostMem.Capacity(),
		DeviceUsed:     d.deviceMem.Used(),
		DeviceCapacity: d.deviceMem.Capacity(),
	}
}

// Close drains the timeline and stops the device. Idempotent.
func (d *Device) Close() {
	d.timeline.Close()
	logging.WithField("device", d.name).Debug("device closed")
}
