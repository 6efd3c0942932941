package chunk

// Decoder converts chunk data into a value of type T. Each chunk shape
// implements its own Decoder; the parser knows nothing about them.
type Decoder[T any] interface {
	// Decode checks that data has the shape's exact size before reading it,
	// and returns ErrInvalidLength otherwise.
	Decode(data []byte) (T, error)

	// DecodeUnchecked reads the fields without checking the size. The caller
	// guarantees len(data) is correct; a short slice panics.
	DecodeUnchecked(data []byte) T
}

// Typed is a chunk whose data has been decoded into T.
type Typed[T any] struct {
	Length uint32
	Type   Type
	Data   T
	CRC    uint32
}

// Convert decodes c.Data with d, keeping c's length, type and CRC.
func Convert[T any](c Chunk, d Decoder[T]) (Typed[T], error) {
	data, err := d.Decode(c.Data)
	if err != nil {
		return Typed[T]{}, err
	}
	return Typed[T]{
		Length: c.Length,
		Type:   c.Type,
		Data:   data,
		CRC:    c.CRC,
	}, nil
}

// ConvertUnchecked is Convert on top of DecodeUnchecked and carries the same
// precondition: c.Data must already have the size d expects.
func ConvertUnchecked[T any](c Chunk, d Decoder[T]) Typed[T] {
	return Typed[T]{
		Length: c.Length,
		Type:   c.Type,
		Data:   d.DecodeUnchecked(c.Data),
		CRC:    c.CRC,
	}
}
