package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Signature is the eight-byte prefix of every PNG datastream:
// 137 80 78 71 13 10 26 10.
const Signature = "\x89PNG\r\n\x1a\n"

// HasSignature reports whether b begins with the PNG signature.
func HasSignature(b []byte) bool {
	return len(b) >= len(Signature) && string(b[:len(Signature)]) == Signature
}

// Parse splits b into chunks, verifying the bounds and CRC of every chunk.
// A leading signature is skipped if present. The walk stops at the first IEND
// chunk; any bytes after it are ignored. The first chunk must be IHDR.
//
// Parse fails on the first violation and never returns partial results:
// ErrInvalidLength when a length field or a chunk does not fit in what is left
// of b, ErrInvalidCRC on a checksum mismatch, and ErrInvalidData when b ends
// without IEND or does not start with IHDR. The returned chunks own their
// data; nothing aliases b.
func Parse(b []byte) ([]Chunk, error) {
	var chunks []Chunk
	off := start(b)
	for {
		// off never exceeds len(b), so rest is never negative.
		rest := len(b) - off
		if rest < lengthSize {
			return nil, ErrInvalidLength.
				WithDetail("offset", off).
				WithDetail("remaining", rest)
		}
		length := binary.BigEndian.Uint32(b[off:])
		if uint64(rest) < uint64(length)+overhead {
			return nil, ErrInvalidLength.
				WithDetail("offset", off).
				WithDetail("length", length).
				WithDetail("remaining", rest)
		}

		c := read(b[off:], length)
		if !c.Valid() {
			return nil, ErrInvalidCRC.
				WithDetail("offset", off).
				WithDetail("type", c.Type.String())
		}
		chunks = append(chunks, c)
		off += c.Size()

		if c.Type == TypeIEND {
			break
		}
		if off == len(b) {
			return nil, ErrInvalidData.
				WithMessage("missing IEND chunk").
				WithDetail("offset", off)
		}
	}

	if chunks[0].Type != TypeIHDR {
		return nil, ErrInvalidData.
			WithMessage("IHDR chunk is not first or missing").
			WithDetail("type", chunks[0].Type.String())
	}
	return chunks, nil
}

// ParseReader reads r to EOF and parses the result with Parse.
func ParseReader(r io.Reader) ([]Chunk, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read datastream: %w", err)
	}
	return Parse(b)
}

// Trusted holds a buffer that has already passed Parse. Validate is the only
// way to obtain a non-zero Trusted.
type Trusted struct {
	b []byte
}

// Validate runs Parse over b and, on success, returns b marked as Trusted so it
// can be walked again with ParseTrusted. The caller must not modify b
// afterwards.
func Validate(b []byte) (Trusted, error) {
	if _, err := Parse(b); err != nil {
		return Trusted{}, err
	}
	return Trusted{b: b}, nil
}

// Len returns the size of the validated buffer; zero for the zero Trusted.
func (t Trusted) Len() int {
	return len(t.b)
}

// ParseTrusted walks t exactly like Parse but performs no bounds, CRC or
// ordering checks.
//
// The buffer must not have been modified since Validate accepted it. A zero
// Trusted or a buffer changed after validation is a programming error:
// ParseTrusted panics with an index out of range or returns garbage.
func ParseTrusted(t Trusted) []Chunk {
	var chunks []Chunk
	b := t.b
	off := start(b)
	for {
		length := binary.BigEndian.Uint32(b[off:])
		c := read(b[off:], length)
		chunks = append(chunks, c)
		off += c.Size()
		if c.Type == TypeIEND {
			return chunks
		}
	}
}

// WriteImageData writes the data of every IDAT chunk, in order, to w. The
// result is the still-compressed zlib stream.
func WriteImageData(w io.Writer, chunks []Chunk) (int64, error) {
	var written int64
	for _, c := range chunks {
		if c.Type != TypeIDAT {
			continue
		}
		n, err := w.Write(c.Data)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("error writing IDAT data: %w", err)
		}
	}
	return written, nil
}

// start returns the offset of the first chunk in b.
func start(b []byte) int {
	if HasSignature(b) {
		return len(Signature)
	}
	return 0
}

// read decodes the chunk at the start of b, whose data field is length bytes
// long. The caller has checked that b holds the whole chunk.
func read(b []byte, length uint32) Chunk {
	n := int(length)
	c := Chunk{
		Length: length,
		Data:   make([]byte, n),
	}
	copy(c.Type[:], b[lengthSize:lengthSize+typeSize])
	copy(c.Data, b[lengthSize+typeSize:])
	c.CRC = binary.BigEndian.Uint32(b[lengthSize+typeSize+n:])
	return c
}
