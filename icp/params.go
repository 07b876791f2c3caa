package icp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/google/go-cmp/cmp"

	"github.com/gf38/Dissertation/ring"
	"github.com/gf38/Dissertation/utils/buffer"
)

// MaxN is the largest supported ring degree.
const MaxN = 1 << 12

var (
	// DefaultXe is the default distribution of the encryption randomness.
	DefaultXe = ring.Binary{P: 0.25}

	// DefaultMaxAttempts is the default bound on the number of candidate
	// generators the key generator samples before giving up.
	DefaultMaxAttempts = 120
)

// ParametersLiteral is a literal representation of scheme parameters. It has
// public fields and is used to express unchecked user-defined parameters
// literally into Go programs. The NewParametersFromLiteral function is used
// to generate the actual checked parameters from the literal representation.
//
// Users must set the ring degree (N) and the bound on the coefficients of
// the secret generator, either directly (T) or in log2 form (LogT).
//
// Optionally, users may specify
//   - Xe: the distribution of the encryption randomness (default: Binary{P: 0.25})
//   - MinNoiseBudget: the smallest acceptable noise budget of a generated
//     key pair, in bits (default: one bit above the log2 of the worst-case
//     norm of a fresh encryption)
//   - MaxAttempts: the bound on the number of generator samples of the key
//     generator (default: DefaultMaxAttempts)
type ParametersLiteral struct {
	N              int
	T              uint64                      `json:",omitempty"`
	LogT           int                         `json:",omitempty"`
	Xe             ring.DistributionParameters `json:",omitempty"`
	MinNoiseBudget float64
	MaxAttempts    int
}

func (p *ParametersLiteral) UnmarshalJSON(b []byte) (err error) {
	var pl struct {
		N              int
		T              uint64
		LogT           int
		Xe             map[string]interface{}
		MinNoiseBudget float64
		MaxAttempts    int
	}

	if err = json.Unmarshal(b, &pl); err != nil {
		return err
	}

	p.N = pl.N
	p.T, p.LogT = pl.T, pl.LogT
	if pl.Xe != nil {
		if p.Xe, err = ring.ParametersFromMap(pl.Xe); err != nil {
			return err
		}
	}
	p.MinNoiseBudget = pl.MinNoiseBudget
	p.MaxAttempts = pl.MaxAttempts

	return
}

// Parameters represents a set of checked scheme parameters.
type Parameters struct {
	n              int
	t              *big.Int
	xe             ring.DistributionParameters
	minNoiseBudget float64
	maxAttempts    int
	ringR          *ring.Ring
}

// NewParametersFromLiteral instantiates a set of Parameters from a
// ParametersLiteral specification. It returns the empty parameters Parameters{}
// and a non-nil error if the specified parameters are invalid.
//
// If the literal does not specify the optional fields, see the
// ParametersLiteral type for their default values.
func NewParametersFromLiteral(paramDef ParametersLiteral) (params Parameters, err error) {

	if paramDef.N > MaxN {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: invalid dimension: N=%d is larger than MaxN=%d", paramDef.N, MaxN)
	}

	ringR, err := ring.NewRing(paramDef.N)
	if err != nil {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: invalid dimension: %w", err)
	}

	if paramDef.T == 0 && paramDef.LogT == 0 {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: both T and LogT fields are empty")
	}
	if paramDef.T != 0 && paramDef.LogT != 0 {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: both T and LogT fields are set")
	}

	t := new(big.Int)
	if paramDef.T != 0 {
		t.SetUint64(paramDef.T)
	} else {
		if paramDef.LogT < 0 {
			return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: LogT field is negative")
		}
		t.Lsh(big.NewInt(1), uint(paramDef.LogT))
	}
	if t.Cmp(big.NewInt(2)) < 0 {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: T must be at least 2 but is %s", t.String())
	}

	if paramDef.Xe == nil {
		// prevents the zero value of ParametersLiteral from resulting in a
		// randomness-free parameter instance
		paramDef.Xe = DefaultXe
	}
	if err = checkDistribution(paramDef.Xe, paramDef.N); err != nil {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: invalid Xe: %w", err)
	}

	if paramDef.MinNoiseBudget < 0 {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: MinNoiseBudget field is negative")
	}
	if paramDef.MinNoiseBudget == 0 {
		// one bit above the log2 of the worst-case L1 norm of a fresh
		// encryption, so that accepted keys always decrypt fresh ciphertexts
		paramDef.MinNoiseBudget = math.Log2(float64(2*paramDef.N+1)) + 1
	}

	if paramDef.MaxAttempts < 0 {
		return Parameters{}, fmt.Errorf("icp.NewParametersFromLiteral: MaxAttempts field is negative")
	}
	if paramDef.MaxAttempts == 0 {
		paramDef.MaxAttempts = DefaultMaxAttempts
	}

	return Parameters{
		n:              paramDef.N,
		t:              t,
		xe:             paramDef.Xe,
		minNoiseBudget: paramDef.MinNoiseBudget,
		maxAttempts:    paramDef.MaxAttempts,
		ringR:          ringR,
	}, nil
}

func checkDistribution(X ring.DistributionParameters, N int) error {
	switch X := X.(type) {
	case ring.Binary:
		if (X.P != 0) == (X.H != 0) {
			return fmt.Errorf("exactly one of the fields P or H should be set")
		}
		if X.P != 0 && (X.P < 0 || X.P > 1) {
			return fmt.Errorf("P should be in ]0, 1] but is %f", X.P)
		}
		if X.H != 0 && (X.H < 0 || X.H > N) {
			return fmt.Errorf("H should be in [1, %d] but is %d", N, X.H)
		}
	case ring.Uniform:
		if X.Max == nil || X.Max.Sign() < 1 {
			return fmt.Errorf("Max should be a positive integer")
		}
	default:
		return fmt.Errorf("want ring.Binary or ring.Uniform but have %T", X)
	}
	return nil
}

// N returns the ring degree.
func (p Parameters) N() int {
	return p.n
}

// T returns the exclusive upper bound on the coefficients of the secret
// generator.
func (p Parameters) T() *big.Int {
	return new(big.Int).Set(p.t)
}

// LogT returns the base 2 logarithm of T.
func (p Parameters) LogT() float64 {
	ln, _ := new(big.Float).SetInt(p.t).Float64()
	return math.Log2(ln)
}

// Xe returns the distribution of the encryption randomness.
func (p Parameters) Xe() ring.DistributionParameters {
	return p.xe
}

// MinNoiseBudget returns the smallest acceptable noise budget of a generated
// key pair, in bits.
func (p Parameters) MinNoiseBudget() float64 {
	return p.minNoiseBudget
}

// MaxAttempts returns the bound on the number of generator samples of the
// key generator.
func (p Parameters) MaxAttempts() int {
	return p.maxAttempts
}

// Ring returns the underlying polynomial ring Z[x]/(x^N + 1).
func (p Parameters) Ring() *ring.Ring {
	return p.ringR
}

// ParametersLiteral returns the ParametersLiteral of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	pl := ParametersLiteral{
		N:              p.n,
		Xe:             p.xe,
		MinNoiseBudget: p.minNoiseBudget,
		MaxAttempts:    p.maxAttempts,
	}
	if p.t.IsUint64() {
		pl.T = p.t.Uint64()
	} else {
		// t exceeding 64 bits can only have been set through LogT
		pl.LogT = p.t.BitLen() - 1
	}
	return pl
}

var bigIntComparer = cmp.Comparer(func(x, y *big.Int) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.Cmp(y) == 0
})

// Equal checks two Parameter structs for equality.
func (p Parameters) Equal(other *Parameters) (res bool) {
	res = p.n == other.n
	res = res && cmp.Equal(p.t, other.t, bigIntComparer)
	res = res && cmp.Equal(p.xe, other.xe, bigIntComparer)
	res = res && (p.minNoiseBudget == other.minNoiseBudget)
	res = res && (p.maxAttempts == other.maxAttempts)
	return
}

// MarshalBinary returns a []byte representation of the parameter set.
// This representation corresponds to the MarshalJSON representation.
func (p Parameters) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err := p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes on the target Parameters.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}

// MarshalJSON returns a JSON representation of this parameter set. See
// Marshal from the encoding/json package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the
// receiver Parameters. See Unmarshal from the encoding/json package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(params)
	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		bytes, err := p.MarshalJSON()
		if err != nil {
			return 0, err
		}

		var inc int
		if inc, err = buffer.WriteInt(w, len(bytes)); err != nil {
			return int64(inc), fmt.Errorf("buffer.WriteInt: %w", err)
		}

		n = int64(inc)

		if inc, err = w.Write(bytes); err != nil {
			return n + int64(inc), fmt.Errorf("io.Writer.Write: %w", err)
		}

		n += int64(inc)

		return n, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var size, inc int
		if inc, err = buffer.ReadInt(r, &size); err != nil {
			return int64(inc), fmt.Errorf("buffer.ReadInt: %w", err)
		}

		n = int64(inc)

		if size < 0 {
			return n, io.ErrUnexpectedEOF
		}

		bytes := make([]byte, size)

		if inc, err = io.ReadFull(r, bytes); err != nil {
			return n + int64(inc), fmt.Errorf("io.ReadFull: %w", err)
		}

		return n + int64(inc), p.UnmarshalJSON(bytes)
	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// BinarySize returns the size in bytes of the marshalled Parameters object.
func (p Parameters) BinarySize() int {
	// XXX: Byte size is hard to predict without marshalling.
	b, _ := p.MarshalJSON()
	return 8 + len(b)
}
