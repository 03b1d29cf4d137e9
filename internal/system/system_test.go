package system

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/amd-chrissosa/SHARK-Platform/internal/config"
)

type systemTestSuite struct {
	suite.Suite
	assert *assert.Assertions
	sys    *System
}

func (s *systemTestSuite) SetupTest() {
	s.assert = assert.New(s.T())
}

func (s *systemTestSuite) TearDownTest() {
	if s.sys != nil {
		s.sys.Shutdown()
	}
	s.sys = nil
}

func (s *systemTestSuite) build(count int) {
	cfg := config.SystemConfig{
		DeviceCount: count,
		HostBytes:   1 << 20,
		DeviceBytes: 1 << 20,
		QueueDepth:  8,
	}

	var err error
	s.sys, err = NewBuilder(cfg).Build()
	s.assert.Nil(err)
	s.assert.NotNil(s.sys)
}

func (s *systemTestSuite) TestInvalidConfig() {
	_, err := NewBuilder(config.SystemConfig{DeviceCount: 0}).Build()
	s.assert.NotNil(err)
	s.assert.True(errors.Is(err, ErrNoDevices))

	_, err = NewBuilder(config.SystemConfig{DeviceCount: -2}).Build()
	s.assert.NotNil(err)
}

func (s *systemTestSuite) TestBuild() {
	s.build(4)

	s.assert.Equal(4, s.sys.DeviceCount())
	s.assert.Equal(4, len(s.sys.Devices()))

	for i := 0; i < 4; i++ {
		dev, err := s.sys.Device(i)
		s.assert.Nil(err)
		s.assert.NotNil(dev)
		s.assert.Equal(i, dev.Ordinal())
	}

	dev, _ := s.sys.Device(0)
	s.assert.Equal("local:0", dev.Name())
	s.assert.Equal(int64(1<<20), dev.HostMemory().Capacity())
}

func (s *systemTestSuite) TestDeviceLookup() {
	s.build(2)

	_, err := s.sys.Device(-1)
	s.assert.True(errors.Is(err, ErrDeviceIndex))

	_, err = s.sys.Device(2)
	s.assert.True(errors.Is(err, ErrDeviceIndex))
}

func (s *systemTestSuite) TestAwaitAll() {
	s.build(3)

	var ran atomic.Int64
	for _, dev := range s.sys.Devices() {
		err := dev.Enqueue(func() error {
			ran.Add(1)
			return nil
		})
		s.assert.Nil(err)
	}

	err := s.sys.AwaitAll(context.Background())
	s.assert.Nil(err)
	s.assert.Equal(int64(3), ran.Load())
}

func (s *systemTestSuite) TestAwaitAllFault() {
	s.build(3)

	boom := errors.New("boom")
	dev, _ := s.sys.Device(1)
	s.assert.Nil(dev.Enqueue(func() error { return boom }))

	err := s.sys.AwaitAll(context.Background())
	s.assert.True(errors.Is(err, boom))
	s.assert.Contains(err.Error(), "local:1")

	// The fault was consumed; the system is clean again.
	s.assert.Nil(s.sys.AwaitAll(context.Background()))
}

func (s *systemTestSuite) TestStats() {
	s.build(2)

	dev, _ := s.sys.Device(0)
	s.assert.Nil(dev.Enqueue(func() error { return nil }))
	s.assert.Nil(s.sys.AwaitAll(context.Background()))

	stats := s.sys.Stats()
	s.assert.Equal(2, len(stats))
	s.assert.Equal("local:0", stats[0].Name)
	s.assert.Equal("local:1", stats[1].Name)
	// One op plus the AwaitAll barrier.
	s.assert.Equal(uint64(2), stats[0].Submitted)
	s.assert.Equal(uint64(1), stats[1].Submitted)
}

func (s *systemTestSuite) TestShutdown() {
	s.build(2)

	s.sys.Shutdown()
	s.sys.Shutdown()

	dev, _ := s.sys.Device(0)
	err := dev.Enqueue(func() error { return nil })
	s.assert.NotNil(err)

	err = s.sys.AwaitAll(context.Background())
	s.assert.True(errors.Is(err, ErrShutdownDone))
}

func TestSystemSuite(t *testing.T) {
	suite.Run(t, new(systemTestSuite))
}
