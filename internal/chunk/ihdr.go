package chunk

import (
	"encoding/binary"
	"fmt"
)

// ihdrLength is the fixed size of IHDR chunk data.
const ihdrLength = 13

// IHDR is the image header. It must be the first chunk in a datastream.
//
// Field values are reported as stored. Whether a bit depth is allowed for a
// color type, or whether a method is defined, is left to the image decoder.
type IHDR struct {
	Width             uint32 // Image width in pixels.
	Height            uint32 // Image height in pixels.
	BitDepth          uint8  // Bits per sample or per palette index: 1, 2, 4, 8 or 16.
	ColorType         uint8  // 0, 2, 3, 4 or 6; see ColorTypeName.
	CompressionMethod uint8  // 0 is deflate with a 32K sliding window.
	FilterMethod      uint8  // 0 is adaptive filtering with five basic types.
	InterlaceMethod   uint8  // 0 is no interlace, 1 is Adam7.
}

// Interlaced reports whether the image uses Adam7 interlacing.
func (h IHDR) Interlaced() bool {
	return h.InterlaceMethod == 1
}

func (h IHDR) String() string {
	return fmt.Sprintf("%dx%d depth=%d color=%s compression=%d filter=%d interlace=%d",
		h.Width, h.Height, h.BitDepth, ColorTypeName(h.ColorType),
		h.CompressionMethod, h.FilterMethod, h.InterlaceMethod)
}

// ColorTypeName returns the name of an IHDR color type.
func ColorTypeName(ct uint8) string {
	switch ct {
	case 0:
		return "greyscale"
	case 2:
		return "truecolor"
	case 3:
		return "indexed-color"
	case 4:
		return "greyscale with alpha"
	case 6:
		return "truecolor with alpha"
	}
	return fmt.Sprintf("invalid(%d)", ct)
}

// HeaderDecoder decodes IHDR chunk data.
var HeaderDecoder Decoder[IHDR] = headerDecoder{}

type headerDecoder struct{}

func (headerDecoder) Decode(data []byte) (IHDR, error) {
	if len(data) != ihdrLength {
		return IHDR{}, ErrInvalidLength.
			WithMessage("invalid length for IHDR").
			WithDetail("length", len(data))
	}
	return headerDecoder{}.DecodeUnchecked(data), nil
}

func (headerDecoder) DecodeUnchecked(data []byte) IHDR {
	return IHDR{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         data[9],
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		InterlaceMethod:   data[12],
	}
}

// Header decodes the IHDR chunk at the front of chunks, as returned by Parse.
func Header(chunks []Chunk) (IHDR, error) {
	if len(chunks) == 0 || chunks[0].Type != TypeIHDR {
		return IHDR{}, ErrInvalidData.WithMessage("IHDR chunk is not first or missing")
	}
	typed, err := Convert(chunks[0], HeaderDecoder)
	return typed.Data, err
}

// Dimensions reads the width and height straight out of the IHDR chunk of a
// datastream, at bytes 16 through 23, without walking the chunks.
//
// Only the signature and the buffer length are checked. The IHDR length, type
// and CRC are not, so a damaged file can yield nonsense dimensions. Use Parse
// and Header when b comes from an untrusted source and the values matter.
func Dimensions(b []byte) (width, height uint32, err error) {
	if !HasSignature(b) {
		return 0, 0, ErrInvalidData.WithMessage("not a PNG datastream")
	}
	const end = len(Signature) + lengthSize + typeSize + 8
	if len(b) < end {
		return 0, 0, ErrInvalidData.
			WithMessage("datastream too short for IHDR").
			WithDetail("length", len(b))
	}
	width = binary.BigEndian.Uint32(b[16:20])
	height = binary.BigEndian.Uint32(b[20:24])
	return width, height, nil
}
