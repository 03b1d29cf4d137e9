// Package snapshot serializes storage contents to a portable stream:
// a fixed magic, a msgpack header describing the bytes, and an
// LZ4-compressed payload guarded by a checksum.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/amd-chrissosa/SHARK-Platform/internal/array"
	"github.com/amd-chrissosa/SHARK-Platform/internal/device"
	"github.com/amd-chrissosa/SHARK-Platform/internal/logging"
)

var (
	ErrBadMagic    = errors.New("not a storage snapshot")
	ErrVersion     = errors.New("unsupported snapshot version")
	ErrChecksum    = errors.New("snapshot payload checksum mismatch")
	ErrDeviceClass = errors.New("only host storage can be snapshotted")
)

var magic = []byte("SFSN")

const version = 1

// header describes the payload that follows it on the wire.
type header struct {
	Version    uint8  `msgpack:"v"`
	Device     string `msgpack:"d"`
	Length     int64  `msgpack:"n"`
	Checksum   uint32 `msgpack:"c"`
	Compressed bool   `msgpack:"z"`
	PayloadLen int64  `msgpack:"p"`
}

// Options controls snapshot encoding.
type Options struct {
	// Compress enables LZ4 block compression of the payload.
	// Incompressible payloads are stored raw either way.
	Compress bool
}

// Write serializes the contents of host-class storage to w.
func Write(w io.Writer, st *array.Storage, opts Options) error {
	if st.Class() != array.ClassHost {
		return fmt.Errorf("%s storage: %w", st.Class(), ErrDeviceClass)
	}

	var data []byte
	err := st.WithMap(array.AccessRead, func(m *array.Mapping) error {
		view, err := m.View()
		if err != nil {
			return err
		}
		data = view.Bytes()
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading storage: %w", err)
	}

	payload := data
	compressed := false
	if opts.Compress && len(data) > 0 {
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return fmt.Errorf("compressing payload: %w", err)
		}
		// n == 0 means incompressible; keep the raw bytes then.
		if n > 0 && n < len(data) {
			payload = buf[:n]
			compressed = true
		}
	}

	hdr, err := msgpack.Marshal(&header{
		Version:    version,
		Device:     st.Device().Name(),
		Length:     st.Length(),
		Checksum:   crc32.ChecksumIEEE(data),
		Compressed: compressed,
		PayloadLen: int64(len(payload)),
	})
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}

	if _, err := w.Write(magic); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	var hdrLen [4]byte
	binary.LittleEndian.PutUint32(hdrLen[:], uint32(len(hdr)))
	if _, err := w.Write(hdrLen[:]); err != nil {
		return fmt.Errorf("writing header length: %w", err)
	}
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}

	logging.WithFields(map[string]interface{}{
		"device":     st.Device().Name(),
		"bytes":      st.Length(),
		"payload":    len(payload),
		"compressed": compressed,
	}).Debug("snapshot written")

	return nil
}

// readHeader consumes the magic and msgpack header from r.
func readHeader(r io.Reader) (*header, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(m[:]) != string(magic) {
		return nil, ErrBadMagic
	}

	var hdrLen [4]byte
	if _, err := io.ReadFull(r, hdrLen[:]); err != nil {
		return nil, fmt.Errorf("reading header length: %w", err)
	}
	hdrBuf := make([]byte, binary.LittleEndian.Uint32(hdrLen[:]))
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var hdr header
	if err := msgpack.Unmarshal(hdrBuf, &hdr); err != nil {
		return nil, fmt.Errorf("decoding header: %w", err)
	}
	return &hdr, nil
}

// Read deserializes a snapshot from r into newly allocated host storage
// on dev. The caller owns the returned storage.
func Read(r io.Reader, dev *device.Device) (*array.Storage, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, hdr.Version)
	}

	payload := make([]byte, hdr.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}

	data := payload
	if hdr.Compressed {
		data = make([]byte, hdr.Length)
		n, err := lz4.UncompressBlock(payload, data)
		if err != nil {
			return nil, fmt.Errorf("decompressing payload: %w", err)
		}
		data = data[:n]
	}

	if int64(len(data)) != hdr.Length {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrChecksum, hdr.Length, len(data))
	}
	if crc32.ChecksumIEEE(data) != hdr.Checksum {
		return nil, ErrChecksum
	}

	st, err := array.AllocateHost(dev, hdr.Length)
	if err != nil {
		return nil, fmt.Errorf("allocating storage: %w", err)
	}

	err = st.WithMap(array.AccessDiscard, func(mp *array.Mapping) error {
		buf, err := mp.Bytes()
		if err != nil {
			return err
		}
		copy(buf, data)
		return nil
	})
	if err != nil {
		st.Release()
		return nil, fmt.Errorf("restoring storage: %w", err)
	}

	logging.WithFields(map[string]interface{}{
		"device": dev.Name(),
		"bytes":  hdr.Length,
		"origin": hdr.Device,
	}).Debug("snapshot restored")

	return st, nil
}

// Save writes a snapshot of st to the named file.
func Save(path string, st *array.Storage, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	if err := Write(f, st, opts); err != nil {
		return err
	}
	return f.Close()
}

// Load reads a snapshot from the named file into host storage on dev.
func Load(path string, dev *device.Device) (*array.Storage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	return Read(f, dev)
}

// Info summarizes a snapshot header.
type Info struct {
	Version    uint8
	Device     string
	Length     int64
	Checksum   uint32
	Compressed bool
	PayloadLen int64
}

// Inspect reads only the header from r, leaving the payload untouched.
// Unlike Read it reports unsupported versions instead of rejecting them.
func Inspect(r io.Reader) (*Info, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	return &Info{
		Version:    hdr.Version,
		Device:     hdr.Device,
		Length:     hdr.Length,
		Checksum:   hdr.Checksum,
		Compressed: hdr.Compressed,
		PayloadLen: hdr.PayloadLen,
	}, nil
}

// InspectFile reads the snapshot header from the named file.
func InspectFile(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	return Inspect(f)
}
