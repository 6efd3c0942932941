package chunk

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/adpollak/pngchunk/internal/crc"
)

// appendChunk appends a well-formed chunk of the given type and data to b.
func appendChunk(b []byte, typ string, data []byte) []byte {
	var t Type
	copy(t[:], typ)
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, t[:]...)
	b = append(b, data...)
	return binary.BigEndian.AppendUint32(b, crc.Checksum(t, data))
}

func ihdrData(width, height uint32, depth, colorType uint8) []byte {
	b := binary.BigEndian.AppendUint32(nil, width)
	b = binary.BigEndian.AppendUint32(b, height)
	return append(b, depth, colorType, 0, 0, 0)
}

// sample is a signature, a 100x50 truecolor IHDR and an IEND.
func sample() []byte {
	b := []byte(Signature)
	b = appendChunk(b, "IHDR", ihdrData(100, 50, 8, 2))
	return appendChunk(b, "IEND", nil)
}

// encodePNG returns a datastream produced by the standard library encoder.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodedSamples(t *testing.T) map[string][]byte {
	t.Helper()
	gray := image.NewGray(image.Rect(0, 0, 7, 3))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 9)
	}
	paletted := image.NewPaletted(image.Rect(0, 0, 17, 1), color.Palette{color.Black, color.White})
	return map[string][]byte{
		"rgba 320x240": encodePNG(t, image.NewRGBA(image.Rect(0, 0, 320, 240))),
		"gray 7x3":     encodePNG(t, gray),
		"paletted":     encodePNG(t, paletted),
		"rgba64 1x1":   encodePNG(t, image.NewNRGBA64(image.Rect(0, 0, 1, 1))),
	}
}
