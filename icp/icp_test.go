package icp

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gf38/Dissertation/lattice"
	"github.com/gf38/Dissertation/ring"
	"github.com/gf38/Dissertation/utils"
	"github.com/gf38/Dissertation/utils/buffer"
	"github.com/gf38/Dissertation/utils/sampling"
)

var flagLongTest = flag.Bool("long", false, "run the long test suite (all parameters).")

func testString(opname string, params Parameters) string {
	return fmt.Sprintf("%s/N=%d/logT=%d", opname, params.N(), int(params.LogT()))
}

type testContext struct {
	params Parameters
	kgen   *KeyGenerator
	sk     *SecretKey
	pk     *PublicKey
	enc    *Encryptor
	dec    *Decryptor
	eval   *Evaluator
}

func genTestContext(paramsLit ParametersLiteral) (tc *testContext, err error) {

	tc = new(testContext)

	if tc.params, err = NewParametersFromLiteral(paramsLit); err != nil {
		return nil, err
	}

	tc.kgen = NewKeyGenerator(tc.params)
	if tc.sk, tc.pk, err = tc.kgen.GenKeyPairNew(); err != nil {
		return nil, err
	}

	tc.enc = NewEncryptor(tc.params, tc.pk)
	tc.dec = NewDecryptor(tc.params, tc.sk)
	tc.eval = NewEvaluator(tc.params, tc.pk)

	return
}

func TestICP(t *testing.T) {

	testParameters(t)
	testKeyGenerator(t)

	for _, paramsLit := range []ParametersLiteral{ExampleParametersN7T128, ExampleParametersN8LogT32} {

		tc, err := genTestContext(paramsLit)
		if err != nil {
			t.Fatal(err)
		}

		testEncryptor(tc, t)
		testEvaluator(tc, t)
		testBinaryInteger(tc, t)
		testNoise(tc, t)
		testSerialization(tc, t)
	}

	if *flagLongTest {
		testNoiseBoundary(t)
	}
}

func testParameters(t *testing.T) {
	t.Run("Parameters", func(t *testing.T) {

		params, err := NewParametersFromLiteral(ParametersLiteral{N: 7, T: 128})
		require.NoError(t, err)
		require.Equal(t, 7, params.N())
		require.Equal(t, uint64(128), params.T().Uint64())
		require.Equal(t, 7.0, params.LogT())
		require.Equal(t, DefaultXe, params.Xe())
		require.Equal(t, DefaultMaxAttempts, params.MaxAttempts())
		require.Equal(t, math.Log2(15)+1, params.MinNoiseBudget())

		params, err = NewParametersFromLiteral(ParametersLiteral{N: 8, LogT: 32})
		require.NoError(t, err)
		require.Equal(t, 32.0, params.LogT())
		require.Equal(t, uint64(1)<<32, params.T().Uint64())

		for _, badLit := range []ParametersLiteral{
			{N: 0, T: 128},
			{N: -1, T: 128},
			{N: MaxN + 1, T: 128},
			{N: 7},
			{N: 7, T: 128, LogT: 7},
			{N: 7, T: 1},
			{N: 7, LogT: -1},
			{N: 7, T: 128, Xe: ring.Binary{}},
			{N: 7, T: 128, Xe: ring.Binary{P: 0.25, H: 1}},
			{N: 7, T: 128, Xe: ring.Binary{H: 8}},
			{N: 7, T: 128, MinNoiseBudget: -1},
			{N: 7, T: 128, MaxAttempts: -1},
		} {
			_, err = NewParametersFromLiteral(badLit)
			require.Error(t, err)
		}

		params, err = NewParametersFromLiteral(ExampleParametersN7T128)
		require.NoError(t, err)

		paramsBis, err := NewParametersFromLiteral(params.ParametersLiteral())
		require.NoError(t, err)
		require.True(t, params.Equal(&paramsBis))

		data, err := json.Marshal(params)
		require.NoError(t, err)
		var paramsJSON Parameters
		require.NoError(t, json.Unmarshal(data, &paramsJSON))
		require.True(t, params.Equal(&paramsJSON))

		buffer.RequireSerializerCorrect(t, &params)
	})
}

func testKeyGenerator(t *testing.T) {
	t.Run("KeyGenerator", func(t *testing.T) {

		params, err := NewParametersFromLiteral(ExampleParametersN7T128)
		require.NoError(t, err)

		kgen := NewKeyGenerator(params)
		sk, pk, err := kgen.GenKeyPairNew()
		require.NoError(t, err)
		require.Greater(t, kgen.Attempts(), 0)
		require.LessOrEqual(t, kgen.Attempts(), params.MaxAttempts())

		n := params.N()
		r := params.Ring()

		// v * w = det exactly in the ring.
		prod := r.MulNew(sk.Value, sk.ScaledInverse)
		require.Equal(t, 0, prod.Coeffs[0].Cmp(sk.Det))
		for i := 1; i < n; i++ {
			require.Equal(t, 0, prod.Coeffs[i].Sign())
		}

		// The modulus is odd, so the scaled inverse has an odd coefficient
		// and the keys support decryption.
		require.Equal(t, uint(1), sk.Det.Bit(0))
		odd := false
		for _, c := range sk.ScaledInverse.Coeffs {
			odd = odd || c.Bit(0) == 1
		}
		require.True(t, odd)

		require.GreaterOrEqual(t, sk.NoiseBudget(), params.MinNoiseBudget())

		require.NoError(t, sk.Validate(params))
		require.NoError(t, pk.Validate(params))

		// A tampered scaled inverse no longer validates or decrypts.
		tampered := sk.CopyNew()
		tampered.ScaledInverse.Coeffs[0].Add(tampered.ScaledInverse.Coeffs[0], big.NewInt(1))
		require.ErrorIs(t, tampered.Validate(params), ErrInvalidPrivateKey)
		require.Panics(t, func() { NewDecryptor(params, tampered) })

		// The generator vanishes at the public root modulo the modulus.
		require.Equal(t, 0, r.Evaluate(sk.Value, pk.Root, pk.Det).Sign())

		// The public root is a root of x^N + 1 modulo the modulus.
		rN := new(big.Int).Exp(pk.Root, big.NewInt(int64(n)), pk.Det)
		require.Equal(t, 0, rN.Add(rN, big.NewInt(1)).Cmp(pk.Det))

		// The rows generated by the root reproduce the Hermite normal form
		// of the rotation lattice of v.
		hnf := lattice.HermiteNormalForm(lattice.RotationBasis(r, sk.Value), sk.Det)
		require.Equal(t, 0, hnf.At(0, 0).Cmp(sk.Det))
		for i := 1; i < n; i++ {
			ri := new(big.Int).Exp(pk.Root, big.NewInt(int64(i)), pk.Det)
			ri.Neg(ri).Mod(ri, pk.Det)
			require.Equal(t, 0, hnf.At(i, 0).Cmp(ri))
			require.Equal(t, 0, hnf.At(i, i).Cmp(big.NewInt(1)))
		}

		// Key generation is deterministic for a fixed PRNG.
		seed := make([]byte, 32)
		prngA, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)
		prngB, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)

		kgenA := NewKeyGenerator(params).WithPRNG(prngA)
		kgenB := NewKeyGenerator(params).WithPRNG(prngB)

		skA, pkA, err := kgenA.GenKeyPairNew()
		require.NoError(t, err)
		skB, pkB, err := kgenB.GenKeyPairNew()
		require.NoError(t, err)

		require.True(t, skA.Equal(skB))
		require.True(t, pkA.Equal(pkB))
		require.Equal(t, kgenA.Attempts(), kgenB.Attempts())

		// An unreachable budget exhausts the attempt bound.
		params, err = NewParametersFromLiteral(ParametersLiteral{N: 7, T: 128, MinNoiseBudget: 1 << 10, MaxAttempts: 8})
		require.NoError(t, err)

		kgen = NewKeyGenerator(params)
		_, _, err = kgen.GenKeyPairNew()
		require.ErrorIs(t, err, ErrKeyGenerationExhausted)
		require.Equal(t, params.MaxAttempts(), kgen.Attempts())
	})
}

func testEncryptor(tc *testContext, t *testing.T) {
	t.Run(testString("Encryptor", tc.params), func(t *testing.T) {

		for _, m := range []uint64{0, 1} {
			for i := 0; i < 16; i++ {
				ct, err := tc.enc.EncryptNew(m)
				require.NoError(t, err)
				require.Equal(t, m, tc.dec.DecryptNew(ct))
			}
		}

		ct := NewCiphertext()
		require.NoError(t, tc.enc.Encrypt(1, ct))
		require.Equal(t, uint64(1), tc.dec.DecryptNew(ct))
		require.Error(t, tc.enc.Encrypt(2, ct))

		// Trivial ciphertexts decrypt under any key, noise free.
		require.Equal(t, uint64(0), tc.dec.DecryptNew(NewCiphertext()))
		require.Equal(t, uint64(0), tc.dec.DecryptNew(NewTrivialCiphertext(0)))
		require.Equal(t, uint64(1), tc.dec.DecryptNew(NewTrivialCiphertext(1)))
		require.True(t, math.IsInf(tc.dec.NoiseBudget(NewTrivialCiphertext(0)), 1))

		// The noise of the trivial encryption of 1 is the scaled inverse.
		noise := tc.dec.NoisePoly(NewTrivialCiphertext(1))
		require.True(t, noise.Equal(&tc.sk.ScaledInverse))

		// Encryption is deterministic for a fixed PRNG derived from a seed.
		seed, err := PRNGKey(tc.sk, tc.pk)
		require.NoError(t, err)
		require.Len(t, seed, 32)

		prngA, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)
		prngB, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)

		ctA, err := tc.enc.WithPRNG(prngA).EncryptNew(1)
		require.NoError(t, err)
		ctB, err := tc.enc.ShallowCopy().WithPRNG(prngB).EncryptNew(1)
		require.NoError(t, err)
		require.True(t, ctA.Equal(ctB))

		// Uniform ciphertexts stay inside the centered interval.
		prng, err := sampling.NewPRNG()
		require.NoError(t, err)
		half := new(big.Int).Rsh(tc.pk.Det, 1)
		for i := 0; i < 16; i++ {
			require.True(t, NewCiphertextRandom(prng, tc.pk).Value.CmpAbs(half) <= 0)
		}
	})
}

func testEvaluator(tc *testContext, t *testing.T) {
	t.Run(testString("Evaluator", tc.params), func(t *testing.T) {

		enc, dec, eval := tc.enc, tc.dec, tc.eval

		c1, err := enc.EncryptNew(1)
		require.NoError(t, err)
		c2, err := enc.EncryptNew(1)
		require.NoError(t, err)
		c3, err := enc.EncryptNew(0)
		require.NoError(t, err)

		require.Equal(t, uint64(1), dec.DecryptNew(c1))
		require.Equal(t, uint64(1), dec.DecryptNew(c2))
		require.Equal(t, uint64(0), dec.DecryptNew(c3))

		// (1 XOR 1) XOR 0 = 0
		sum := eval.AddNew(c1, c2)
		eval.Add(sum, c3, sum)
		require.Equal(t, uint64(0), dec.DecryptNew(sum))

		// (1 AND 1) XOR 0 = 1 and (1 AND 1) XOR 1 = 0
		prod := eval.MulNew(c1, c2)
		require.Equal(t, uint64(1), dec.DecryptNew(eval.AddNew(prod, c3)))
		require.Equal(t, uint64(0), dec.DecryptNew(eval.AddNew(prod, c1)))

		// Ciphertexts are plain integers: unreduced arithmetic on the values
		// decrypts to the same circuit on the bits.
		raw := &Ciphertext{Value: new(big.Int).Mul(c1.Value, c2.Value)}
		raw.Value.Add(raw.Value, c3.Value)
		require.Equal(t, uint64(1), dec.DecryptNew(raw))

		for _, m1 := range []uint64{0, 1} {
			for _, m2 := range []uint64{0, 1} {

				ct1, err := enc.EncryptNew(m1)
				require.NoError(t, err)
				ct2, err := enc.EncryptNew(m2)
				require.NoError(t, err)

				require.Equal(t, (m1+m2)&1, dec.DecryptNew(eval.AddNew(ct1, ct2)))
				require.Equal(t, (m1+m2)&1, dec.DecryptNew(eval.SubNew(ct1, ct2)))
				require.Equal(t, m1&m2, dec.DecryptNew(eval.MulNew(ct1, ct2)))
				require.Equal(t, m1, dec.DecryptNew(eval.NegNew(ct1)))

				require.Equal(t, m1^1, dec.DecryptNew(eval.AddScalarNew(ct1, big.NewInt(1))))
				require.Equal(t, m1, dec.DecryptNew(eval.MulScalarNew(ct1, big.NewInt(3))))
				require.Equal(t, uint64(0), dec.DecryptNew(eval.MulScalarNew(ct1, big.NewInt(2))))

				// Aliased operands are supported.
				eval.Mul(ct1, ct1, ct1)
				require.Equal(t, m1, dec.DecryptNew(ct1))
			}
		}
	})
}

func testBinaryInteger(tc *testContext, t *testing.T) {
	t.Run(testString("BinaryInteger", tc.params), func(t *testing.T) {

		if tc.params.LogT() < 32 {
			t.Skip("modulus too small for the carry chain of the adder")
		}

		_, err := EncryptUintNew(tc.enc, 42, 0)
		require.Error(t, err)
		_, err = EncryptUintNew(tc.enc, 42, 65)
		require.Error(t, err)

		a, err := EncryptUintNew(tc.enc, 42, 6)
		require.NoError(t, err)
		require.Equal(t, uint64(42), DecryptUint(tc.dec, a))

		b, err := EncryptUintNew(tc.enc, 60, 6)
		require.NoError(t, err)

		// 101010 + 111100 = 100110 modulo 2^6
		sum := AddNew(tc.eval, a, b)
		require.Equal(t, uint64(38), DecryptUint(tc.dec, sum))

		sumBits := make([]uint64, len(sum))
		for i, ct := range sum {
			sumBits[i] = tc.dec.DecryptNew(ct)
		}
		require.True(t, utils.EqualSlice(sumBits, []uint64{0, 1, 1, 0, 0, 1}))

		// Inputs are left untouched by the adder.
		require.Equal(t, uint64(42), DecryptUint(tc.dec, a))
		require.Equal(t, uint64(60), DecryptUint(tc.dec, b))
	})
}

func testNoise(tc *testContext, t *testing.T) {
	t.Run(testString("Noise", tc.params), func(t *testing.T) {

		cts := make([]*Ciphertext, 32)
		for i := range cts {
			var err error
			cts[i], err = tc.enc.EncryptNew(uint64(i & 1))
			require.NoError(t, err)

			// Fresh encryptions decrypt, so their budget is positive.
			require.Greater(t, tc.dec.NoiseBudget(cts[i]), 0.0)
		}

		stats := NewNoiseStats(tc.dec, cts)
		require.LessOrEqual(t, stats.Min, stats.Median)
		require.LessOrEqual(t, stats.Median, stats.Max)
		require.LessOrEqual(t, stats.Min, stats.Mean)
		require.LessOrEqual(t, stats.Mean, stats.Max)
		require.Contains(t, stats.String(), "budget")

		_, min, max := Norm(cts[0], tc.dec)
		require.LessOrEqual(t, min, max)

		noise := tc.dec.Noise(cts[0])
		require.True(t, noise.Sign() > 0)
	})
}

func testSerialization(tc *testContext, t *testing.T) {
	t.Run(testString("Serialization", tc.params), func(t *testing.T) {

		buffer.RequireSerializerCorrect(t, &tc.params)
		buffer.RequireSerializerCorrect(t, tc.sk)
		buffer.RequireSerializerCorrect(t, tc.pk)

		ct, err := tc.enc.EncryptNew(1)
		require.NoError(t, err)
		buffer.RequireSerializerCorrect(t, ct)
		buffer.RequireSerializerCorrect(t, tc.eval.NegNew(ct))
	})
}

// testNoiseBoundary wears a ciphertext down with products until decryption
// becomes unreliable, checking that the noise wall is where the budget
// predicts it.
func testNoiseBoundary(t *testing.T) {
	t.Run("NoiseBoundary", func(t *testing.T) {

		tc, err := genTestContext(ExampleParametersN128T128)
		if err != nil {
			t.Fatal(err)
		}

		one, err := tc.enc.EncryptNew(1)
		require.NoError(t, err)

		ct := one.CopyNew()

		mults := 0
		for mults < 64 && tc.dec.DecryptNew(ct) == 1 {
			tc.eval.Mul(ct, one, ct)
			mults++
		}

		// The budget floor of the parameters guarantees a few products
		// before the noise reaches the decryption bound.
		require.GreaterOrEqual(t, mults, 3)
		require.Less(t, mults, 64)
	})
}
