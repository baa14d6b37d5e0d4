// Package persistence stores clustering and similarity models as
// self-describing snapshots.
//
// A snapshot is a fixed header followed by the encoded payload:
//
//	magic "SCL1" | version u16 | kind u8 | compression u8 |
//	codec name (u8 length + bytes) | raw length u64 | payload length u64 |
//	CRC32C u32 | payload
//
// All integers are little-endian. The checksum covers the stored payload
// bytes, so corruption is detected before decompression. The codec name is
// recorded so a snapshot is always decoded with the codec that wrote it.
package persistence
