package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/signmatch/codec"
)

// magic identifies a signmatch dataset envelope.
var magic = [4]byte{'S', 'G', 'D', 'S'}

// envelopeVersion is bumped on incompatible header changes.
const envelopeVersion = 1

// ErrBadEnvelope indicates data that is not a valid dataset envelope.
var ErrBadEnvelope = errors.New("bad dataset envelope")

// Compression selects the payload compression of an envelope.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// Encode serializes the dataset into a self-describing envelope.
// A nil codec selects codec.Default.
//
// Header layout:
//
//	magic[4] | version u8 | compression u8 | codecNameLen u8 | codecName | payload
func Encode(d *Dataset, c codec.Codec, comp Compression) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}

	payload, err := c.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset %q: %w", d.Name, err)
	}

	payload, err = compress(payload, comp)
	if err != nil {
		return nil, err
	}

	name := c.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("codec name too long: %q", name)
	}

	var buf bytes.Buffer
	buf.Grow(len(magic) + 3 + len(name) + len(payload))
	buf.Write(magic[:])
	buf.WriteByte(envelopeVersion)
	buf.WriteByte(byte(comp))
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	buf.Write(payload)

	return buf.Bytes(), nil
}

// Decode parses an envelope produced by Encode, selecting the codec and
// compression recorded in the header.
func Decode(data []byte) (*Dataset, error) {
	if len(data) < len(magic)+3 {
		return nil, fmt.Errorf("%w: truncated header", ErrBadEnvelope)
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrBadEnvelope)
	}
	if v := data[4]; v != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadEnvelope, v)
	}

	comp := Compression(data[5])
	nameLen := int(data[6])
	rest := data[7:]
	if len(rest) < nameLen {
		return nil, fmt.Errorf("%w: truncated codec name", ErrBadEnvelope)
	}

	c, ok := codec.ByName(string(rest[:nameLen]))
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrBadEnvelope, string(rest[:nameLen]))
	}

	payload, err := decompress(rest[nameLen:], comp)
	if err != nil {
		return nil, err
	}

	var d Dataset
	if err := c.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	return &d, nil
}

func compress(payload []byte, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone:
		return payload, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(payload, nil), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %v", comp)
	}
}

func decompress(payload []byte, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone:
		return payload, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrBadEnvelope, err)
		}
		return out, nil
	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrBadEnvelope, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrBadEnvelope, uint8(comp))
	}
}
