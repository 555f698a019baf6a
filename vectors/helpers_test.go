// Copyright 2024 The ecvectors Authors
// This file is part of the ecvectors library.
//
// The ecvectors library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ecvectors library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ecvectors library. If not, see <http://www.gnu.org/licenses/>.

package vectors

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethvectors/ecvectors/common"
	"github.com/ethvectors/ecvectors/crypto/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodePoint is the consumer side of EncodePoint. It performs no curve or
// subgroup checks.
func decodePoint[P any](tb testing.TB, c *Codec, g ec.Group[P], enc []byte) P {
	tb.Helper()
	prof := c.Profile()
	require.Lenf(tb, enc, prof.PointSize(g.ID()), "%v point encoding", g.ID())

	pad := prof.FieldPadding()
	coords := make([][]byte, 0, len(enc)/prof.WordSize)
	for off := 0; off < len(enc); off += prof.WordSize {
		word := enc[off : off+prof.WordSize]
		require.Equal(tb, make([]byte, pad), word[:pad], "field element padding")
		coords = append(coords, word[pad:])
	}
	p, err := g.FromCoordinates(coords)
	require.NoError(tb, err, "FromCoordinates()")
	return p
}

func decodeScalar(tb testing.TB, c *Codec, enc []byte) *big.Int {
	tb.Helper()
	prof := c.Profile()
	require.Len(tb, enc, prof.ScalarWordSize, "scalar encoding")
	pad := prof.ScalarPadding()
	require.Equal(tb, make([]byte, pad), enc[:pad], "scalar padding")
	return new(big.Int).SetBytes(enc[pad:])
}

func encodeForTest[P any](tb testing.TB, c *Codec, g ec.Group[P], p P) []byte {
	tb.Helper()
	enc, err := EncodePoint(c, g, p)
	require.NoError(tb, err, "EncodePoint()")
	return enc
}

// wellFormed asserts p is a valid precompile operand.
func wellFormed[P any](tb testing.TB, g ec.Group[P], p P) {
	tb.Helper()
	assert.Truef(tb, g.IsOnCurve(p), "%v operand on curve", g.ID())
	assert.Truef(tb, g.IsInSubgroup(p), "%v operand in subgroup", g.ID())
}

func wantOversized(c *Codec, modulus *big.Int) []byte {
	v := new(big.Int).Add(modulus, big.NewInt(4))
	fe := v.FillBytes(make([]byte, c.Profile().FieldElementSize))
	return common.LeftPadBytes(fe, c.Profile().WordSize)
}

func namesOf[V Success | Failure](vectors []V) []string {
	names := make([]string, len(vectors))
	for i, v := range vectors {
		switch v := any(v).(type) {
		case Success:
			names[i] = v.Name
		case Failure:
			names[i] = v.Name
		}
	}
	return names
}

func checkAddVectors[P any](t *testing.T, c *Codec, g ec.Group[P], op Op, vectors []Success, n int) {
	t.Helper()
	size := c.Profile().PointSize(g.ID())

	require.Len(t, vectors, n+2)
	assert.Equal(t, vectorName(op, 1), vectors[0].Name)
	assert.Equal(t, vectorName(op, "infinity"), vectors[n].Name)
	assert.Equal(t, vectorName(op, "negation"), vectors[n+1].Name)
	assert.Equal(t, c.Infinity(g.ID()), []byte(vectors[n+1].Expected), "a + (-a)")

	for _, v := range vectors {
		require.Lenf(t, v.Input, 2*size, "%s input", v.Name)
		a := decodePoint(t, c, g, v.Input[:size])
		b := decodePoint(t, c, g, v.Input[size:])
		assert.Equalf(t, encodeForTest(t, c, g, g.Add(a, b)), []byte(v.Expected), "%s expected", v.Name)
		assert.Equalf(t, []byte(v.Input[:size]), encodeForTest(t, c, g, a), "%s round trip", v.Name)
	}
}

func checkMulVectors[P any](t *testing.T, c *Codec, g ec.Group[P], op Op, vectors []Success, n int) {
	t.Helper()
	size := c.Profile().PointSize(g.ID())

	require.Len(t, vectors, n+2)
	for _, v := range vectors {
		require.Lenf(t, v.Input, c.Profile().MulInputSize(g.ID()), "%s input", v.Name)
		a := decodePoint(t, c, g, v.Input[:size])
		e := decodeScalar(t, c, v.Input[size:])
		assert.Equalf(t, encodeForTest(t, c, g, g.ScalarMul(a, e)), []byte(v.Expected), "%s expected", v.Name)
	}
	zero := vectors[n]
	assert.Equal(t, vectorName(op, "zero_scalar"), zero.Name)
	assert.Equal(t, make([]byte, c.Profile().ScalarWordSize), []byte(zero.Input[size:]))
	assert.Equal(t, c.Infinity(g.ID()), []byte(zero.Expected), "0·a")
	assert.NotEqual(t, c.Infinity(g.ID()), []byte(zero.Input[:size]), "zero scalar operand")

	inf := vectors[n+1]
	assert.Equal(t, vectorName(op, "infinity"), inf.Name)
	assert.Equal(t, c.Infinity(g.ID()), []byte(inf.Expected), "e·∞")
}

func checkMultiExpVectors[P any](t *testing.T, c *Codec, g ec.Group[P], op Op, vectors []Success, n int) {
	t.Helper()
	var (
		size     = c.Profile().PointSize(g.ID())
		termSize = c.Profile().MulInputSize(g.ID())
	)
	require.Len(t, vectors, n)
	for i, v := range vectors {
		k := i + 1
		assert.Equal(t, vectorName(op, k), v.Name)
		require.Lenf(t, v.Input, k*termSize, "%s input", v.Name)

		acc := g.Infinity()
		for off := 0; off < len(v.Input); off += termSize {
			term := v.Input[off : off+termSize]
			a := decodePoint(t, c, g, term[:size])
			wellFormed(t, g, a)
			acc = g.Add(acc, g.ScalarMul(a, decodeScalar(t, c, term[size:])))
		}
		assert.Equalf(t, encodeForTest(t, c, g, acc), []byte(v.Expected), "%s expected", v.Name)
	}
}

func checkPairingVectors[G1, G2 any](t *testing.T, e ec.Engine[G1, G2], c *Codec, vectors []Success, n int) {
	t.Helper()
	wantNames := []string{"pairing_infinity_g1", "pairing_infinity_g2"}
	for k := 2; k <= n+1; k++ {
		wantNames = append(wantNames, fmt.Sprintf("pairing_true_%d", k))
	}
	for k := 1; k <= n; k++ {
		wantNames = append(wantNames, fmt.Sprintf("pairing_false_%d", k))
	}
	require.Equal(t, wantNames, namesOf(vectors))

	for _, v := range vectors {
		want := pairingOutcome(v.Name)
		assert.Equalf(t, want, evalPairing(t, e, c, v.Input), "%s evaluation", v.Name)

		require.Len(t, v.Expected, 32)
		if want {
			assert.Equalf(t, pairingTrue[:], []byte(v.Expected), "%s expected output", v.Name)
		} else {
			assert.Equalf(t, pairingFalse[:], []byte(v.Expected), "%s expected output", v.Name)
		}
	}
	// (∞, g2) and (g1, ∞) are single pair products.
	for _, v := range vectors[:2] {
		assert.Len(t, v.Input, c.Profile().PairSize(), v.Name)
	}
}

// pairingOutcome returns the result a pairing vector must evaluate to,
// derived from its name.
func pairingOutcome(name string) bool {
	return !strings.HasPrefix(name, "pairing_false_")
}

// evalPairing decodes a pairing input and evaluates the product with e.
func evalPairing[G1, G2 any](tb testing.TB, e ec.Engine[G1, G2], c *Codec, input []byte) bool {
	tb.Helper()
	var (
		g1Size   = c.Profile().G1EncodedSize
		pairSize = c.Profile().PairSize()
		ps       []G1
		qs       []G2
	)
	require.Zero(tb, len(input)%pairSize, "input length")
	for off := 0; off < len(input); off += pairSize {
		ps = append(ps, decodePoint(tb, c, e.G1(), input[off:off+g1Size]))
		qs = append(qs, decodePoint(tb, c, e.G2(), input[off+g1Size:off+pairSize]))
	}
	ok, err := e.PairingCheck(ps, qs)
	require.NoError(tb, err, "PairingCheck()")
	return ok
}

// checkLengthFailures verifies the three length categories for an operation
// with exact input length l.
func checkLengthFailures(t *testing.T, failures []Failure, l int) {
	t.Helper()
	require.GreaterOrEqual(t, len(failures), 3)

	for _, f := range failures[:3] {
		assert.Equal(t, TagInvalidLength, f.ExpectedError, f.Name)
	}
	assert.Equal(t, "invalid_input_length_empty", failures[0].Name)
	assert.Empty(t, failures[0].Input)

	assert.Equal(t, "invalid_input_length_short", failures[1].Name)
	assert.Equal(t, make([]byte, l-1), []byte(failures[1].Input))

	assert.Equal(t, "invalid_input_length_large", failures[2].Name)
	assert.Equal(t, bytes.Repeat([]byte{0x01}, l+1), []byte(failures[2].Input))
}

// checkGroupFailures verifies the failure suite of an add, mul or multiexp
// operation built from slots operands of slotSize bytes each.
func checkGroupFailures[P any](t *testing.T, c *Codec, g ec.Group[P], modulus *big.Int, failures []Failure, slots, slotSize int) {
	t.Helper()
	var (
		prof      = c.Profile()
		pointSize = prof.PointSize(g.ID())
		l         = slots * slotSize
		last      = (slots - 1) * slotSize
	)
	require.Equal(t, []string{
		"invalid_input_length_empty",
		"invalid_input_length_short",
		"invalid_input_length_large",
		"large_field_element",
		"point_not_on_curve",
	}, namesOf(failures))
	checkLengthFailures(t, failures, l)

	large := failures[3]
	assert.Equal(t, TagLargeField, large.ExpectedError)
	require.Len(t, large.Input, l)
	oversized := wantOversized(c, modulus)
	assert.Equal(t, oversized, []byte(large.Input[last:last+prof.WordSize]), "oversized word")
	assert.Equal(t, make([]byte, slotSize-prof.WordSize), []byte(large.Input[last+prof.WordSize:]), "bytes after the oversized word")

	offCurve := failures[4]
	assert.Equal(t, TagNotOnCurve, offCurve.ExpectedError)
	require.Len(t, offCurve.Input, l)
	p := decodePoint(t, c, g, offCurve.Input[last:last+pointSize])
	assert.False(t, g.IsOnCurve(p), "defect operand on curve")

	for _, f := range failures[3:] {
		for off := 0; off < last; off += slotSize {
			wellFormed(t, g, decodePoint(t, c, g, f.Input[off:off+pointSize]))
		}
	}
}

func checkPairingFailures[G1, G2 any](t *testing.T, e ec.Engine[G1, G2], c *Codec, failures []Failure) {
	t.Helper()
	var (
		prof     = c.Profile()
		pairSize = prof.PairSize()
		g1Size   = prof.G1EncodedSize
		last     = (pairingSlots - 1) * pairSize
	)
	require.Equal(t, []string{
		"invalid_input_length_empty",
		"invalid_input_length_short",
		"invalid_input_length_large",
		"large_field_element",
		"point_not_on_curve_g1",
		"point_not_on_curve_g2",
		"incorrect_subgroup_g1",
		"incorrect_subgroup_g2",
	}, namesOf(failures))
	checkLengthFailures(t, failures, pairingSlots*pairSize)

	large := failures[3]
	assert.Equal(t, TagLargeField, large.ExpectedError)
	require.Len(t, large.Input, pairingSlots*pairSize)
	assert.Equal(t, wantOversized(c, e.BaseModulus()), []byte(large.Input[last:last+prof.WordSize]))
	assert.Equal(t, make([]byte, pairSize-prof.WordSize), []byte(large.Input[last+prof.WordSize:]))

	tags := []string{TagNotOnCurve, TagNotOnCurve, TagG1WrongSubgroup, TagG2WrongSubgroup}
	for i, f := range failures[4:] {
		assert.Equal(t, tags[i], f.ExpectedError, f.Name)
		require.Len(t, f.Input, pairingSlots*pairSize)
		for off := 0; off < last; off += pairSize {
			wellFormed(t, e.G1(), decodePoint(t, c, e.G1(), f.Input[off:off+g1Size]))
			wellFormed(t, e.G2(), decodePoint(t, c, e.G2(), f.Input[off+g1Size:off+pairSize]))
		}
		p := decodePoint(t, c, e.G1(), f.Input[last:last+g1Size])
		q := decodePoint(t, c, e.G2(), f.Input[last+g1Size:])
		switch f.Name {
		case "point_not_on_curve_g1":
			assert.False(t, e.G1().IsOnCurve(p))
			wellFormed(t, e.G2(), q)
		case "point_not_on_curve_g2":
			wellFormed(t, e.G1(), p)
			assert.False(t, e.G2().IsOnCurve(q))
		case "incorrect_subgroup_g1":
			assert.True(t, e.G1().IsOnCurve(p))
			assert.False(t, e.G1().IsInSubgroup(p))
			wellFormed(t, e.G2(), q)
		case "incorrect_subgroup_g2":
			wellFormed(t, e.G1(), p)
			assert.True(t, e.G2().IsOnCurve(q))
			assert.False(t, e.G2().IsInSubgroup(q))
		}
	}
}

// checkAllSuites generates every operation of engine and verifies each
// vector against the engine's own arithmetic.
func checkAllSuites[G1, G2 any](t *testing.T, engine ec.Engine[G1, G2], config Config, seed uint64) {
	t.Helper()
	gen, err := NewGenerator(engine, config, NewPseudoRand(seed))
	require.NoError(t, err, "NewGenerator()")

	var (
		c     = gen.codec
		n     = config.Count
		prof  = engine.Profile()
		g1    = engine.G1()
		g2    = engine.G2()
		mod   = engine.BaseModulus()
		term1 = prof.MulInputSize(ec.G1)
		term2 = prof.MulInputSize(ec.G2)
	)
	for _, op := range AllOps {
		t.Run(string(op), func(t *testing.T) {
			suite, err := gen.Suite(op)
			require.NoError(t, err, "Suite()")
			require.Equal(t, op, suite.Op)

			switch op {
			case OpG1Add:
				checkAddVectors(t, c, g1, op, suite.Success, n)
				checkGroupFailures(t, c, g1, mod, suite.Failure, addSlots, prof.G1EncodedSize)
			case OpG2Add:
				checkAddVectors(t, c, g2, op, suite.Success, n)
				checkGroupFailures(t, c, g2, mod, suite.Failure, addSlots, prof.G2EncodedSize)
			case OpG1Mul:
				checkMulVectors(t, c, g1, op, suite.Success, n)
				checkGroupFailures(t, c, g1, mod, suite.Failure, 1, term1)
			case OpG2Mul:
				checkMulVectors(t, c, g2, op, suite.Success, n)
				checkGroupFailures(t, c, g2, mod, suite.Failure, 1, term2)
			case OpG1MultiExp:
				checkMultiExpVectors(t, c, g1, op, suite.Success, n)
				checkGroupFailures(t, c, g1, mod, suite.Failure, multiExpSlots, term1)
			case OpG2MultiExp:
				checkMultiExpVectors(t, c, g2, op, suite.Success, n)
				checkGroupFailures(t, c, g2, mod, suite.Failure, multiExpSlots, term2)
			case OpPairing:
				checkPairingVectors(t, engine, c, suite.Success, n)
				checkPairingFailures(t, engine, c, suite.Failure)
			}
		})
	}
}
