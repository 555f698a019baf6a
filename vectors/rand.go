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
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	dcrand "github.com/decred/dcrd/crypto/rand"
	exprand "golang.org/x/exp/rand"
)

// PseudoRand is a seeded, reproducible byte source (*not* crypto/rand). The
// same seed always yields the same vectors.
type PseudoRand struct {
	*exprand.Rand
}

var _ io.Reader = (*PseudoRand)(nil)

// NewPseudoRand returns a new PseudoRand with the given seed.
func NewPseudoRand(seed uint64) *PseudoRand {
	return &PseudoRand{exprand.New(exprand.NewSource(seed))}
}

// NewSeed draws a fresh seed from the operating system's entropy source.
func NewSeed() uint64 {
	return dcrand.Uint64()
}

// randomScalar returns a uniform scalar in [0, max).
func randomScalar(rng io.Reader, max *big.Int) (*big.Int, error) {
	k, err := rand.Int(rng, max)
	if err != nil {
		return nil, fmt.Errorf("sampling scalar: %w", err)
	}
	return k, nil
}

// randomNonZeroScalar returns a uniform scalar in [1, max).
func randomNonZeroScalar(rng io.Reader, max *big.Int) (*big.Int, error) {
	k, err := randomScalar(rng, new(big.Int).Sub(max, big.NewInt(1)))
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}
