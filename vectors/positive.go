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
	"fmt"
	"math/big"

	"github.com/ethvectors/ecvectors/common"
	"github.com/holiman/uint256"
)

var (
	pairingTrue  = uint256.NewInt(1).Bytes32()
	pairingFalse = uint256.NewInt(0).Bytes32()
)

func vectorName(op Op, suffix any) string {
	return fmt.Sprintf("%s_%v", op, suffix)
}

// addVectors returns n random sums followed by the identity and negation cases.
func (s *groupSampler[P]) addVectors(op Op, n int) ([]Success, error) {
	vectors := make([]Success, 0, n+2)
	emit := func(a, b, sum P, name string) error {
		input, err := s.encodeAll(a, b)
		if err != nil {
			return err
		}
		expected, err := s.encode(sum)
		if err != nil {
			return err
		}
		vectors = append(vectors, Success{Input: input, Expected: expected, Name: name})
		return nil
	}
	for i := 1; i <= n; i++ {
		a, err := s.randomPoint()
		if err != nil {
			return nil, err
		}
		b, err := s.randomPoint()
		if err != nil {
			return nil, err
		}
		if err := emit(a, b, s.group.Add(a, b), vectorName(op, i)); err != nil {
			return nil, err
		}
	}
	a, err := s.randomPoint()
	if err != nil {
		return nil, err
	}
	if err := emit(a, s.group.Infinity(), a, vectorName(op, "infinity")); err != nil {
		return nil, err
	}
	if err := emit(a, s.negate(a), s.group.Infinity(), vectorName(op, "negation")); err != nil {
		return nil, err
	}
	return vectors, nil
}

// mulVectors returns n random products followed by the zero scalar and
// identity point cases.
func (s *groupSampler[P]) mulVectors(op Op, n int) ([]Success, error) {
	vectors := make([]Success, 0, n+2)
	emit := func(a P, e *big.Int, name string) error {
		input, err := s.encodeTerm(a, e)
		if err != nil {
			return err
		}
		expected, err := s.encode(s.group.ScalarMul(a, e))
		if err != nil {
			return err
		}
		vectors = append(vectors, Success{Input: input, Expected: expected, Name: name})
		return nil
	}
	for i := 1; i <= n; i++ {
		a, err := s.randomPoint()
		if err != nil {
			return nil, err
		}
		e, err := s.randomScalar()
		if err != nil {
			return nil, err
		}
		if err := emit(a, e, vectorName(op, i)); err != nil {
			return nil, err
		}
	}
	a, err := s.randomPoint()
	if err != nil {
		return nil, err
	}
	if err := emit(a, new(big.Int), vectorName(op, "zero_scalar")); err != nil {
		return nil, err
	}
	e, err := s.randomScalar()
	if err != nil {
		return nil, err
	}
	if err := emit(s.group.Infinity(), e, vectorName(op, "infinity")); err != nil {
		return nil, err
	}
	return vectors, nil
}

// multiExpVectors returns n vectors, the k-th holding k random terms.
func (s *groupSampler[P]) multiExpVectors(op Op, n int) ([]Success, error) {
	vectors := make([]Success, 0, n)
	for k := 1; k <= n; k++ {
		var (
			input []byte
			acc   = s.group.Infinity()
		)
		for i := 0; i < k; i++ {
			a, err := s.randomPoint()
			if err != nil {
				return nil, err
			}
			e, err := s.randomScalar()
			if err != nil {
				return nil, err
			}
			term, err := s.encodeTerm(a, e)
			if err != nil {
				return nil, err
			}
			input = append(input, term...)
			acc = s.group.Add(acc, s.group.ScalarMul(a, e))
		}
		expected, err := s.encode(acc)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, Success{Input: input, Expected: expected, Name: vectorName(op, k)})
	}
	return vectors, nil
}

// pairingVectors returns the degenerate identity cases, n balanced products
// that evaluate to one and n random products that do not.
//
// The false cases are only false with overwhelming probability: a random
// product of pairings hits the identity with probability about 1/r. With
// SelfCheck enabled such a product is detected and resampled.
func (g *Generator[G1, G2]) pairingVectors(n int) ([]Success, error) {
	vectors := make([]Success, 0, 2*n+2)

	g1, g2 := g.g1.group, g.g2.group
	degenerate := []struct {
		name string
		p    G1
		q    G2
	}{
		{"infinity_g1", g1.Infinity(), g2.Generator()},
		{"infinity_g2", g1.Generator(), g2.Infinity()},
	}
	for _, c := range degenerate {
		v, err := g.pairingVector([]G1{c.p}, []G2{c.q}, true, vectorName(OpPairing, c.name))
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}

	r := g.engine.ScalarModulus()
	for k := 2; k <= n+1; k++ {
		var (
			ps  = make([]G1, 0, k)
			qs  = make([]G2, 0, k)
			acc = new(big.Int)
		)
		for i := 0; i < k-1; i++ {
			a, err := randomNonZeroScalar(g.rng, r)
			if err != nil {
				return nil, err
			}
			b, err := randomNonZeroScalar(g.rng, r)
			if err != nil {
				return nil, err
			}
			ps = append(ps, g1.ScalarMul(g1.Generator(), a))
			qs = append(qs, g2.ScalarMul(g2.Generator(), b))
			acc.Add(acc, a.Mul(a, b)).Mod(acc, r)
		}
		acc.Sub(r, acc).Mod(acc, r)
		ps = append(ps, g1.ScalarMul(g1.Generator(), acc))
		qs = append(qs, g2.Generator())

		v, err := g.pairingVector(ps, qs, true, vectorName(OpPairing, fmt.Sprintf("true_%d", k)))
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}

	for k := 1; k <= n; k++ {
		v, err := g.randomFalsePairing(k)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func (g *Generator[G1, G2]) randomFalsePairing(k int) (Success, error) {
	name := vectorName(OpPairing, fmt.Sprintf("false_%d", k))
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		ps, qs, err := g.randomPairs(k)
		if err != nil {
			return Success{}, err
		}
		if g.config.SelfCheck {
			ok, err := g.engine.PairingCheck(ps, qs)
			if err != nil {
				return Success{}, err
			}
			if ok {
				g.log.Warn("Random pairing product evaluated to one, resampling", "pairs", k)
				continue
			}
		}
		input, err := g.encodePairs(ps, qs)
		if err != nil {
			return Success{}, err
		}
		return Success{Input: input, Expected: common.CopyBytes(pairingFalse[:]), Name: name}, nil
	}
	return Success{}, fmt.Errorf("%w: %s", ErrSamplingExhausted, name)
}

func (g *Generator[G1, G2]) randomPairs(k int) ([]G1, []G2, error) {
	ps, qs := make([]G1, k), make([]G2, k)
	for i := 0; i < k; i++ {
		var err error
		if ps[i], err = g.g1.randomPoint(); err != nil {
			return nil, nil, err
		}
		if qs[i], err = g.g2.randomPoint(); err != nil {
			return nil, nil, err
		}
	}
	return ps, qs, nil
}

// pairingVector encodes the pairs and, with SelfCheck enabled, verifies that
// the backend agrees with the expected outcome.
func (g *Generator[G1, G2]) pairingVector(ps []G1, qs []G2, want bool, name string) (Success, error) {
	if g.config.SelfCheck {
		ok, err := g.engine.PairingCheck(ps, qs)
		if err != nil {
			return Success{}, err
		}
		if ok != want {
			return Success{}, fmt.Errorf("%w: %s evaluated to %t", ErrSelfCheck, name, ok)
		}
	}
	input, err := g.encodePairs(ps, qs)
	if err != nil {
		return Success{}, err
	}
	expected := pairingFalse
	if want {
		expected = pairingTrue
	}
	return Success{Input: input, Expected: expected[:], Name: name}, nil
}

func (g *Generator[G1, G2]) encodePairs(ps []G1, qs []G2) ([]byte, error) {
	input := make([]byte, 0, len(ps)*g.codec.Profile().PairSize())
	for i := range ps {
		p, err := g.g1.encode(ps[i])
		if err != nil {
			return nil, err
		}
		q, err := g.g2.encode(qs[i])
		if err != nil {
			return nil, err
		}
		input = append(input, p...)
		input = append(input, q...)
	}
	return input, nil
}
