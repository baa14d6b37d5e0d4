package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/songclust/codec"
	ihash "github.com/hupe1980/songclust/internal/hash"
)

// maxRawLength bounds the decompressed payload a header may announce.
const maxRawLength = 1 << 36

// Encode writes v as a snapshot of the given kind to w and returns the
// number of bytes written. A nil codec selects codec.Default.
func Encode(w io.Writer, kind Kind, v any, c codec.Codec, comp Compression) (int64, error) {
	if c == nil {
		c = codec.Default
	}
	if len(c.Name()) > 255 {
		return 0, fmt.Errorf("%w: name %q too long", ErrUnknownCodec, c.Name())
	}

	raw, err := c.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("persistence: encode %s: %w", kind, err)
	}

	payload, used, err := compress(raw, comp)
	if err != nil {
		return 0, fmt.Errorf("persistence: compress %s: %w", kind, err)
	}

	h := Header{
		Version:     Version,
		Kind:        kind,
		Compression: used,
		Codec:       c.Name(),
		RawLength:   uint64(len(raw)),
		Length:      uint64(len(payload)),
		Checksum:    ihash.CRC32C(payload),
	}

	n, err := w.Write(appendHeader(make([]byte, 0, h.Size()), h))
	written := int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(payload)
	written += int64(n)
	return written, err
}

func appendHeader(buf []byte, h Header) []byte {
	buf = append(buf, Magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, h.Version)
	buf = append(buf, byte(h.Kind), byte(h.Compression), byte(len(h.Codec)))
	buf = append(buf, h.Codec...)
	buf = binary.LittleEndian.AppendUint64(buf, h.RawLength)
	buf = binary.LittleEndian.AppendUint64(buf, h.Length)
	return binary.LittleEndian.AppendUint32(buf, h.Checksum)
}

// ReadHeader reads and validates a snapshot header.
func ReadHeader(r io.Reader) (Header, error) {
	var fixed [9]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Header{}, truncated(err)
	}
	if [4]byte(fixed[:4]) != Magic {
		return Header{}, ErrInvalidMagic
	}

	h := Header{
		Version:     binary.LittleEndian.Uint16(fixed[4:]),
		Kind:        Kind(fixed[6]),
		Compression: Compression(fixed[7]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	// codec name, raw length, payload length, checksum
	nameLen := int(fixed[8])
	rest := make([]byte, nameLen+20)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Header{}, truncated(err)
	}
	h.Codec = string(rest[:nameLen])
	rest = rest[nameLen:]
	h.RawLength = binary.LittleEndian.Uint64(rest[0:])
	h.Length = binary.LittleEndian.Uint64(rest[8:])
	h.Checksum = binary.LittleEndian.Uint32(rest[16:])

	if h.RawLength > maxRawLength || h.Length > maxRawLength {
		return Header{}, fmt.Errorf("%w: payload length %d", ErrTruncated, h.Length)
	}
	return h, nil
}

// Decode reads a snapshot from r into v. The snapshot must be of the
// expected kind.
func Decode(r io.Reader, kind Kind, v any) (Header, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, err
	}
	if h.Kind != kind {
		return h, fmt.Errorf("%w: got %s, expected %s", ErrKindMismatch, h.Kind, kind)
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return h, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	cr := NewChecksumReader(io.LimitReader(r, int64(h.Length)))
	payload, err := io.ReadAll(cr)
	if err != nil {
		return h, err
	}
	if uint64(len(payload)) != h.Length {
		return h, fmt.Errorf("%w: payload is %d bytes, expected %d", ErrTruncated, len(payload), h.Length)
	}
	if err := cr.Verify(h.Checksum); err != nil {
		return h, err
	}

	raw, err := decompress(payload, h.Compression, h.RawLength)
	if err != nil {
		return h, err
	}
	if err := c.Unmarshal(raw, v); err != nil {
		return h, fmt.Errorf("persistence: decode %s: %w", kind, err)
	}
	return h, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
