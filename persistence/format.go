package persistence

import (
	"errors"
	"fmt"
)

// Magic identifies songclust snapshot files.
var Magic = [4]byte{'S', 'C', 'L', '1'}

// Version is the current snapshot format version.
const Version uint16 = 1

// Kind names the model stored in a snapshot.
type Kind uint8

const (
	KindKMeans Kind = iota + 1
	KindHierarchy
	KindLSH
	KindMinHash
)

func (k Kind) String() string {
	switch k {
	case KindKMeans:
		return "kmeans"
	case KindHierarchy:
		return "hierarchy"
	case KindLSH:
		return "lsh"
	case KindMinHash:
		return "minhash"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

var (
	ErrInvalidMagic        = errors.New("persistence: invalid magic number")
	ErrUnsupportedVersion  = errors.New("persistence: unsupported version")
	ErrUnknownCodec        = errors.New("persistence: unknown codec")
	ErrUnknownCompression  = errors.New("persistence: unknown compression")
	ErrKindMismatch        = errors.New("persistence: snapshot kind mismatch")
	ErrTruncated           = errors.New("persistence: truncated snapshot")
	ErrManagerClosed       = errors.New("persistence: manager is closed")
	ErrInvalidSnapshotName = errors.New("persistence: invalid snapshot name")
)

// Header describes a stored snapshot.
type Header struct {
	Version     uint16
	Kind        Kind
	Compression Compression
	Codec       string
	RawLength   uint64
	Length      uint64
	Checksum    uint32
}

// fixedHeaderSize is the header size without the codec name bytes.
const fixedHeaderSize = 4 + 2 + 1 + 1 + 1 + 8 + 8 + 4

// Size returns the encoded header size in bytes.
func (h Header) Size() int {
	return fixedHeaderSize + len(h.Codec)
}
