package ring

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"github.com/gf38/Dissertation/utils/sampling"
)

const (
	binaryDistName  = "Binary"
	uniformDistName = "Uniform"
)

// Sampler is an interface for random polynomial samplers.
// It has a single Read method which takes as argument the polynomial to be
// populated according to the Sampler's distribution.
type Sampler interface {
	Read(pol Poly)
	ReadNew() (pol Poly)
	WithPRNG(prng sampling.PRNG) Sampler
}

// DistributionParameters is an interface for distribution
// parameters in the ring.
// There are two implementations of this interface:
//   - Binary for sampling polynomials with coefficients in [0, 1].
//   - Uniform for sampling polynomials with coefficients uniformly
//     distributed in a given interval.
type DistributionParameters interface {
	// Type returns a string representation of the distribution name.
	Type() string
	mustBeDist()
}

// Binary represents the parameters of a distribution with coefficients
// in [0, 1]. Only one of its fields must be set to a non-zero value:
//
//   - If P is set, each coefficient in the polynomial is sampled in [0, 1]
//     with probabilities [1-P, P].
//   - If H is set, the coefficients are sampled uniformly in the set of binary
//     polynomials with H non-zero coefficients (i.e., of hamming weight H).
type Binary struct {
	P float64
	H int
}

// Uniform represents the parameters of a uniform distribution
// i.e., with coefficients uniformly distributed in [0, Max).
type Uniform struct {
	Max *big.Int
}

func NewSampler(prng sampling.PRNG, baseRing *Ring, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case Binary:
		return NewBinarySampler(prng, baseRing, X)
	case Uniform:
		return NewUniformSampler(prng, baseRing, X)
	default:
		return nil, fmt.Errorf("invalid distribution: want ring.Binary or ring.Uniform but have %T", X)
	}
}

type baseSampler struct {
	prng     sampling.PRNG
	baseRing *Ring
}

func (d Binary) Type() string {
	return binaryDistName
}

func (d Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string
		P    float64 `json:",omitempty"`
		H    int     `json:",omitempty"`
	}{Type: d.Type(), P: d.P, H: d.H})
}

func (d Binary) mustBeDist() {}

func (d Uniform) Type() string {
	return uniformDistName
}

func (d Uniform) MarshalJSON() ([]byte, error) {
	if d.Max == nil {
		return nil, fmt.Errorf("cannot marshal Uniform distribution: Max is nil")
	}
	return json.Marshal(struct {
		Type string
		Max  string
	}{Type: d.Type(), Max: d.Max.String()})
}

func (d Uniform) mustBeDist() {}

func getFloatFromMap(distDef map[string]interface{}, key string) (float64, error) {
	val, hasVal := distDef[key]
	if !hasVal {
		return 0, fmt.Errorf("map specifies no value for %s", key)
	}
	f, isFloat := val.(float64)
	if !isFloat {
		return 0, fmt.Errorf("value for key %s in map should be of type float", key)
	}
	return f, nil
}

func getIntFromMap(distDef map[string]interface{}, key string) (int, error) {
	val, hasVal := distDef[key]
	if !hasVal {
		return 0, fmt.Errorf("map specifies no value for %s", key)
	}
	f, isNumeric := val.(float64)
	if !isNumeric && f == float64(int(f)) {
		return 0, fmt.Errorf("value for key %s in map should be an integer", key)
	}
	return int(f), nil
}

func getBigIntFromMap(distDef map[string]interface{}, key string) (*big.Int, error) {
	val, hasVal := distDef[key]
	if !hasVal {
		return nil, fmt.Errorf("map specifies no value for %s", key)
	}
	switch val := val.(type) {
	case string:
		i, ok := new(big.Int).SetString(val, 10)
		if !ok {
			return nil, fmt.Errorf("value for key %s in map is not a valid base 10 integer", key)
		}
		return i, nil
	case float64:
		if val != math.Trunc(val) {
			return nil, fmt.Errorf("value for key %s in map should be an integer", key)
		}
		return new(big.Int).SetInt64(int64(val)), nil
	default:
		return nil, fmt.Errorf("value for key %s in map should be of type string or numeric", key)
	}
}

func ParametersFromMap(distDef map[string]interface{}) (DistributionParameters, error) {
	distTypeVal, specified := distDef["Type"]
	if !specified {
		return nil, fmt.Errorf("map specifies no distribution type")
	}
	distTypeStr, isString := distTypeVal.(string)
	if !isString {
		return nil, fmt.Errorf("value for key Type of map should be of type string")
	}
	switch distTypeStr {
	case uniformDistName:
		max, err := getBigIntFromMap(distDef, "Max")
		if err != nil {
			return nil, fmt.Errorf("unable to parse uniform parameter Max: %w", err)
		}
		return Uniform{Max: max}, nil
	case binaryDistName:
		_, hasP := distDef["P"]
		_, hasH := distDef["H"]

		var (
			p   float64
			h   int
			err error
		)

		// a zero value for both P and H is interpreted as an unset value
		if hasP {
			if p, err = getFloatFromMap(distDef, "P"); err != nil {
				return nil, fmt.Errorf("unable to parse binary parameter P: %w", err)
			}
			hasP = (p != 0)
		}
		if hasH {
			if h, err = getIntFromMap(distDef, "H"); err != nil {
				return nil, fmt.Errorf("unable to parse binary parameter H: %w", err)
			}
			hasH = (h != 0)
		}
		if (hasP && hasH) || (!hasP && !hasH) {
			return nil, fmt.Errorf("exactly one of the fields P or H need to be set")
		}

		return Binary{P: p, H: h}, nil
	default:
		return nil, fmt.Errorf("distribution type %s does not exist", distTypeStr)
	}
}
