// Package crc computes the 32-bit cyclic redundancy code that guards every
// chunk in a PNG datastream.
package crc

import (
	"github.com/snksoft/crc"
)

// Size of a CRC-32 in bytes.
const Size = 4

// table is built once; lookups are read-only so it is safe for concurrent use.
var table = crc.NewTable(crc.CRC32)

// Checksum returns the CRC-32 of the chunk type followed by the chunk data.
// The length field is NOT part of the checksummed bytes.
func Checksum(typ [4]byte, data []byte) uint32 {
	sum := table.InitCrc()
	sum = table.UpdateCrc(sum, typ[:])
	sum = table.UpdateCrc(sum, data)
	return table.CRC32(sum)
}
