package icp

import (
	"bytes"
	"io"

	"github.com/zeebo/blake3"
)

const keySize = 32

// PRNGKey derives a PRNG key by hashing the binary serialization of the
// given objects. Instantiating a keyed PRNG from the returned key makes the
// derived randomness a deterministic function of the objects.
func PRNGKey(objects ...io.WriterTo) ([]byte, error) {

	hasher := blake3.New()
	buf := new(bytes.Buffer)

	for _, object := range objects {
		if _, err := object.WriteTo(buf); err != nil {
			return nil, err
		}
	}

	hasher.Write(buf.Bytes())

	sum := hasher.Sum(nil)
	return sum[:keySize], nil
}
