// Package chunk splits a PNG datastream into its chunks, verifies their
// CRCs, and decodes chunk data into typed structures.
//
// It stops at the chunk layer: IDAT data is never inflated, scanlines are
// never unfiltered, and nothing is written back out. Those stages consume the
// []Chunk this package returns.
package chunk

import (
	"fmt"

	"github.com/adpollak/pngchunk/internal/crc"
)

// Below is visually what a chunk in the PNG datastream looks like.
//
//	+------------+ +------------+ +------------+ +-------+
//	|   LENGTH   | | CHUNK TYPE | | CHUNK DATA | |  CRC  |
//	+------------+ +------------+ +------------+ +-------+
//	    4 bytes        4 bytes      LENGTH bytes   4 bytes
const (
	lengthSize = 4
	typeSize   = 4
	crcSize    = crc.Size

	// overhead is every byte of a chunk except its data.
	overhead = lengthSize + typeSize + crcSize
)

// Chunk defines the chunk layout as specified by PNG datastream structure.
type Chunk struct {
	Length uint32 // A four-byte unsigned integer giving the number of bytes in the chunk's data field.
	Type   Type   // A sequence of four bytes defining the chunk type.
	Data   []byte // The data bytes of the relevant chunk type; can be zero length.
	CRC    uint32 // The stored CRC, calculated on chunk type and data but NOT length.
}

// Valid recomputes the CRC over c.Type and c.Data and compares it with c.CRC.
func (c Chunk) Valid() bool {
	return crc.Checksum(c.Type, c.Data) == c.CRC
}

// Size returns the number of bytes c occupies in a datastream.
func (c Chunk) Size() int {
	return overhead + len(c.Data)
}

func (c Chunk) String() string {
	return fmt.Sprintf("%s len=%d crc=%08x", c.Type, c.Length, c.CRC)
}

// Type is a four-byte chunk type code. Two types are equal only if all four
// bytes are equal; there is no case folding.
type Type [4]byte

// Critical chunks
var (
	TypeIHDR = Type{'I', 'H', 'D', 'R'}
	TypePLTE = Type{'P', 'L', 'T', 'E'}
	TypeIDAT = Type{'I', 'D', 'A', 'T'}
	TypeIEND = Type{'I', 'E', 'N', 'D'}
)

// names maps every chunk type defined by the PNG specification to a short
// description. Only IHDR and IEND influence parsing.
var names = map[Type]string{
	TypeIHDR: "image header",
	TypePLTE: "palette",
	TypeIDAT: "image data",
	TypeIEND: "image trailer",

	{'c', 'H', 'R', 'M'}: "primary chromaticities",
	{'g', 'A', 'M', 'A'}: "image gamma",
	{'i', 'C', 'C', 'P'}: "embedded ICC profile",
	{'s', 'B', 'I', 'T'}: "significant bits",
	{'s', 'R', 'G', 'B'}: "standard RGB colour space",
	{'c', 'I', 'C', 'P'}: "coding-independent code points",
	{'m', 'D', 'C', 'v'}: "mastering display colour volume",
	{'c', 'L', 'L', 'i'}: "content light level",
	{'b', 'K', 'G', 'D'}: "background colour",
	{'h', 'I', 'S', 'T'}: "image histogram",
	{'t', 'R', 'N', 'S'}: "transparency",
	{'e', 'X', 'I', 'f'}: "exchangeable image file profile",
	{'p', 'H', 'Y', 's'}: "physical pixel dimensions",
	{'s', 'P', 'L', 'T'}: "suggested palette",
	{'t', 'I', 'M', 'E'}: "image last-modification time",
	{'i', 'T', 'X', 't'}: "international textual data",
	{'t', 'E', 'X', 't'}: "textual data",
	{'z', 'T', 'X', 't'}: "compressed textual data",
	{'a', 'c', 'T', 'L'}: "animation control",
	{'f', 'c', 'T', 'L'}: "frame control",
	{'f', 'd', 'A', 'T'}: "frame data",
}

// ParseType converts a four letter string such as "IHDR" into a Type.
func ParseType(s string) (Type, error) {
	var t Type
	if len(s) != len(t) {
		return t, fmt.Errorf("chunk type %q: must be 4 bytes, got %d", s, len(s))
	}
	copy(t[:], s)
	for _, b := range t {
		if !isLetter(b) {
			return Type{}, fmt.Errorf("chunk type %q: byte %#02x is not an ASCII letter", s, b)
		}
	}
	return t, nil
}

func (t Type) String() string {
	return string(t[:])
}

// Known reports whether t is defined by the PNG specification.
func (t Type) Known() bool {
	_, ok := names[t]
	return ok
}

// Describe returns a short human-readable description of t, or "unknown".
func (t Type) Describe() string {
	if name, ok := names[t]; ok {
		return name
	}
	return "unknown"
}

// The case of each byte of a type carries a property bit (bit 5).

// IsCritical determines if a chunk is a Critical or Ancillary type.
func (t Type) IsCritical() bool { return isUpper(t[0]) }

// IsPublic reports whether t is registered (public) rather than private.
func (t Type) IsPublic() bool { return isUpper(t[1]) }

// ReservedBitValid reports whether the reserved bit is clear, as every conforming
// type requires.
func (t Type) ReservedBitValid() bool { return isUpper(t[2]) }

// IsSafeToCopy reports whether editors that do not recognise t may copy it.
func (t Type) IsSafeToCopy() bool { return !isUpper(t[3]) }

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

func isLetter(b byte) bool { return isUpper(b) || (b >= 'a' && b <= 'z') }
