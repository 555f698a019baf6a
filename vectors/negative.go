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
)

// Failure vectors share one layout: all operands before the last slot are
// well formed and random, the last slot carries the single defect.
const (
	addSlots      = 2
	multiExpSlots = 3
	pairingSlots  = 3
)

// lengthFailures returns the empty, one byte short and one byte long inputs
// for an operation whose exact input length is l.
func lengthFailures(l int) []Failure {
	return []Failure{
		{Input: Hex{}, ExpectedError: TagInvalidLength, Name: "invalid_input_length_empty"},
		{Input: make([]byte, l-1), ExpectedError: TagInvalidLength, Name: "invalid_input_length_short"},
		{Input: bytes.Repeat([]byte{0x01}, l+1), ExpectedError: TagInvalidLength, Name: "invalid_input_length_large"},
	}
}

// oversizedSlot returns a slot of the given size whose first coordinate
// component holds the oversized word and whose other bytes are zero.
func oversizedSlot(word []byte, size int) []byte {
	slot := make([]byte, size)
	copy(slot, word)
	return slot
}

// encodeOversized builds the word used by large_field_element vectors.
func encodeOversized(c *Codec, modulus *big.Int) ([]byte, error) {
	v := new(big.Int).Add(modulus, big.NewInt(4))
	if (v.BitLen()+7)/8 > c.Profile().FieldElementSize {
		return nil, fmt.Errorf("%w: %s: modulus+4 does not fit in %d bytes", ErrEncoding, c.Profile(), c.Profile().FieldElementSize)
	}
	return c.EncodeFieldElement(v.FillBytes(make([]byte, c.Profile().FieldElementSize)))
}

// addFailures returns the failure vectors of a two operand addition.
func (s *groupSampler[P]) addFailures(oversized []byte) ([]Failure, error) {
	var (
		pointSize = s.codec.Profile().PointSize(s.group.ID())
		vectors   = lengthFailures(addSlots * pointSize)
	)
	a, err := s.randomPoint()
	if err != nil {
		return nil, err
	}
	head, err := s.encode(a)
	if err != nil {
		return nil, err
	}
	vectors = append(vectors, Failure{
		Input:         concat(head, oversizedSlot(oversized, pointSize)),
		ExpectedError: TagLargeField,
		Name:          "large_field_element",
	})

	b, err := s.notOnCurve()
	if err != nil {
		return nil, err
	}
	tail, err := s.encode(b)
	if err != nil {
		return nil, err
	}
	vectors = append(vectors, Failure{
		Input:         concat(head, tail),
		ExpectedError: TagNotOnCurve,
		Name:          "point_not_on_curve",
	})
	return vectors, nil
}

// mulFailures returns the failure vectors of a single scalar multiplication.
func (s *groupSampler[P]) mulFailures(oversized []byte) ([]Failure, error) {
	return s.termFailures(1, oversized)
}

// multiExpFailures returns the failure vectors of a three term multiexp.
func (s *groupSampler[P]) multiExpFailures(oversized []byte) ([]Failure, error) {
	return s.termFailures(multiExpSlots, oversized)
}

// termFailures builds failure vectors over slots (point, scalar) terms.
func (s *groupSampler[P]) termFailures(slots int, oversized []byte) ([]Failure, error) {
	var (
		termSize = s.codec.Profile().MulInputSize(s.group.ID())
		vectors  = lengthFailures(slots * termSize)
	)
	head, err := s.randomTerms(slots - 1)
	if err != nil {
		return nil, err
	}
	vectors = append(vectors, Failure{
		Input:         concat(head, oversizedSlot(oversized, termSize)),
		ExpectedError: TagLargeField,
		Name:          "large_field_element",
	})

	if head, err = s.randomTerms(slots - 1); err != nil {
		return nil, err
	}
	p, err := s.notOnCurve()
	if err != nil {
		return nil, err
	}
	k, err := s.randomScalar()
	if err != nil {
		return nil, err
	}
	tail, err := s.encodeTerm(p, k)
	if err != nil {
		return nil, err
	}
	vectors = append(vectors, Failure{
		Input:         concat(head, tail),
		ExpectedError: TagNotOnCurve,
		Name:          "point_not_on_curve",
	})
	return vectors, nil
}

func (s *groupSampler[P]) randomTerms(n int) ([]byte, error) {
	var out []byte
	for i := 0; i < n; i++ {
		term, err := s.randomTerm()
		if err != nil {
			return nil, err
		}
		out = append(out, term...)
	}
	return out, nil
}

// pairingFailures returns the failure vectors of a three pair pairing check.
func (g *Generator[G1, G2]) pairingFailures() ([]Failure, error) {
	pairSize := g.codec.Profile().PairSize()
	vectors := lengthFailures(pairingSlots * pairSize)

	head, err := g.randomPairsEncoded(pairingSlots - 1)
	if err != nil {
		return nil, err
	}
	vectors = append(vectors, Failure{
		Input:         concat(head, oversizedSlot(g.oversized, pairSize)),
		ExpectedError: TagLargeField,
		Name:          "large_field_element",
	})

	defects := []struct {
		name, tag string
		g1, g2    func() ([]byte, error)
	}{
		{"point_not_on_curve_g1", TagNotOnCurve, encodeWith(g.g1, g.g1.notOnCurve), encodeWith(g.g2, g.g2.randomPoint)},
		{"point_not_on_curve_g2", TagNotOnCurve, encodeWith(g.g1, g.g1.randomPoint), encodeWith(g.g2, g.g2.notOnCurve)},
		{"incorrect_subgroup_g1", TagG1WrongSubgroup, encodeWith(g.g1, g.g1.wrongSubgroup), encodeWith(g.g2, g.g2.randomPoint)},
		{"incorrect_subgroup_g2", TagG2WrongSubgroup, encodeWith(g.g1, g.g1.randomPoint), encodeWith(g.g2, g.g2.wrongSubgroup)},
	}
	for _, d := range defects {
		head, err := g.randomPairsEncoded(pairingSlots - 1)
		if err != nil {
			return nil, err
		}
		p, err := d.g1()
		if err != nil {
			return nil, err
		}
		q, err := d.g2()
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, Failure{
			Input:         concat(head, p, q),
			ExpectedError: d.tag,
			Name:          d.name,
		})
	}
	return vectors, nil
}

func (g *Generator[G1, G2]) randomPairsEncoded(n int) ([]byte, error) {
	ps, qs, err := g.randomPairs(n)
	if err != nil {
		return nil, err
	}
	return g.encodePairs(ps, qs)
}

// encodeWith returns a function that samples a point with sample and encodes
// it with s.
func encodeWith[P any](s *groupSampler[P], sample func() (P, error)) func() ([]byte, error) {
	return func() ([]byte, error) {
		p, err := sample()
		if err != nil {
			return nil, err
		}
		return s.encode(p)
	}
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
