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
	"io"
	"math/big"

	"github.com/ethvectors/ecvectors/crypto/ec"
	"github.com/ethvectors/ecvectors/log"
)

// groupSampler samples and encodes points of a single group. All randomness
// is drawn from rng, so a sampler is as deterministic as its source.
type groupSampler[P any] struct {
	group       ec.Group[P]
	codec       *Codec
	order       *big.Int
	rng         io.Reader
	maxAttempts int
	log         log.Logger
}

// randomPoint returns k·G for a uniform non-zero k.
func (s *groupSampler[P]) randomPoint() (P, error) {
	k, err := randomNonZeroScalar(s.rng, s.order)
	if err != nil {
		var zero P
		return zero, err
	}
	return s.group.ScalarMul(s.group.Generator(), k), nil
}

func (s *groupSampler[P]) randomScalar() (*big.Int, error) {
	return randomScalar(s.rng, s.order)
}

func (s *groupSampler[P]) negate(p P) P {
	return s.group.ScalarMul(p, new(big.Int).Sub(s.order, big.NewInt(1)))
}

func (s *groupSampler[P]) encode(p P) ([]byte, error) {
	return EncodePoint(s.codec, s.group, p)
}

// encodeAll concatenates the encodings of points.
func (s *groupSampler[P]) encodeAll(points ...P) ([]byte, error) {
	var out []byte
	for _, p := range points {
		enc, err := s.encode(p)
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}

// encodeTerm encodes one (point, scalar) operand of mul and multiexp.
func (s *groupSampler[P]) encodeTerm(p P, k *big.Int) ([]byte, error) {
	enc, err := s.encode(p)
	if err != nil {
		return nil, err
	}
	scalar, err := s.codec.EncodeScalar(k)
	if err != nil {
		return nil, err
	}
	return append(enc, scalar...), nil
}

// randomTerm samples a random point and scalar and returns their encoding.
func (s *groupSampler[P]) randomTerm() ([]byte, error) {
	p, err := s.randomPoint()
	if err != nil {
		return nil, err
	}
	k, err := s.randomScalar()
	if err != nil {
		return nil, err
	}
	return s.encodeTerm(p, k)
}

// notOnCurve samples independent coordinates until they miss the curve.
func (s *groupSampler[P]) notOnCurve() (P, error) {
	for i := 0; i < s.maxAttempts; i++ {
		p, err := s.group.RandomCoordinates(s.rng)
		if err != nil {
			return p, err
		}
		if !s.group.IsOnCurve(p) {
			return p, nil
		}
		s.log.Trace("Random coordinates landed on the curve, resampling", "group", s.group.ID(), "attempt", i+1)
	}
	var zero P
	return zero, fmt.Errorf("%w: no %v point off the curve after %d attempts", ErrSamplingExhausted, s.group.ID(), s.maxAttempts)
}

// wrongSubgroup lifts random abscissas until it finds a curve point outside
// the prime order subgroup.
func (s *groupSampler[P]) wrongSubgroup() (P, error) {
	for i := 0; i < s.maxAttempts; i++ {
		p, ok, err := s.group.LiftX(s.rng)
		if err != nil {
			return p, err
		}
		if !ok {
			continue
		}
		if !s.group.IsOnCurve(p) {
			return p, fmt.Errorf("%w: lifted %v point is off the curve", ErrSelfCheck, s.group.ID())
		}
		if !s.group.IsInSubgroup(p) {
			return p, nil
		}
		s.log.Trace("Lifted point is in the subgroup, resampling", "group", s.group.ID(), "attempt", i+1)
	}
	var zero P
	return zero, fmt.Errorf("%w: no %v point outside the subgroup after %d attempts", ErrSamplingExhausted, s.group.ID(), s.maxAttempts)
}
