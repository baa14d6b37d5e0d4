// Package hash provides the CRC32-Castagnoli checksum that guards snapshot
// payloads.
//
// One-shot:
//
//	sum := hash.CRC32C(payload)
//
// Streaming:
//
//	h := hash.NewCRC32C()
//	h.Write(header)
//	h.Write(payload)
//	sum := h.Sum32()
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when present.
package hash
