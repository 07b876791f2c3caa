package buffer

import (
	"bytes"
	"encoding"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// Serializer is the interface implemented by types that support the full
// binary serialization toolchain, i.e. both the io.WriterTo / io.ReaderFrom
// pair and the encoding.BinaryMarshaler / encoding.BinaryUnmarshaler pair,
// along with a BinarySize method returning the size of the marshalled object
// in bytes.
type Serializer interface {
	io.WriterTo
	io.ReaderFrom
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	BinarySize() int
}

// RequireSerializerCorrect checks that the serialization methods of the given
// object are consistent with each other: MarshalBinary and WriteTo must
// produce identical encodings of exactly BinarySize() bytes, and decoding
// the encodings on a fresh object must re-encode to the same bytes.
func RequireSerializerCorrect(t *testing.T, object Serializer) {

	t.Helper()

	data, err := object.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, object.BinarySize(), len(data))

	clone := reflect.New(reflect.TypeOf(object).Elem()).Interface().(Serializer)
	require.NoError(t, clone.UnmarshalBinary(data))

	data2, err := clone.MarshalBinary()
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, data2))

	buf := NewBufferSize(object.BinarySize())

	n, err := object.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, int64(object.BinarySize()), n)
	require.True(t, bytes.Equal(data, buf.Bytes()))

	clone = reflect.New(reflect.TypeOf(object).Elem()).Interface().(Serializer)

	nRead, err := clone.ReadFrom(buf)
	require.NoError(t, err)
	require.Equal(t, n, nRead)

	data3, err := clone.MarshalBinary()
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, data3))
}
