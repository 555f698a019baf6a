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

package ec

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned when a profile's byte geometry is inconsistent.
var ErrInvalidProfile = errors.New("invalid curve profile")

// Profile describes the calldata byte geometry of one curve family. All sizes
// are in bytes.
type Profile struct {
	Name   string // human readable curve name
	Prefix string // vector file name prefix

	FieldElementSize int // canonical size of a base field element
	WordSize         int // size of one encoded coordinate component, padding included
	ScalarSize       int // canonical size of a scalar field element
	ScalarWordSize   int // size of one encoded scalar, padding included
	G1EncodedSize    int // size of an encoded G1 point
	G2EncodedSize    int // size of an encoded G2 point
}

// Validate checks the profile invariants. It must pass before the profile is
// used to encode anything, since all padding arithmetic relies on it.
func (p Profile) Validate() error {
	switch {
	case p.Name == "" || p.Prefix == "":
		return fmt.Errorf("%w: missing name or prefix", ErrInvalidProfile)
	case p.FieldElementSize <= 0:
		return fmt.Errorf("%w: %s: field element size %d", ErrInvalidProfile, p.Name, p.FieldElementSize)
	case p.WordSize < p.FieldElementSize:
		return fmt.Errorf("%w: %s: word size %d below field element size %d", ErrInvalidProfile, p.Name, p.WordSize, p.FieldElementSize)
	case p.ScalarSize <= 0:
		return fmt.Errorf("%w: %s: scalar size %d", ErrInvalidProfile, p.Name, p.ScalarSize)
	case p.ScalarWordSize < p.ScalarSize:
		return fmt.Errorf("%w: %s: scalar word size %d below scalar size %d", ErrInvalidProfile, p.Name, p.ScalarWordSize, p.ScalarSize)
	case p.G1EncodedSize != 2*p.WordSize:
		return fmt.Errorf("%w: %s: g1 size %d, want %d", ErrInvalidProfile, p.Name, p.G1EncodedSize, 2*p.WordSize)
	case p.G2EncodedSize <= 0 || p.G2EncodedSize%(2*p.WordSize) != 0:
		return fmt.Errorf("%w: %s: g2 size %d is not a multiple of %d", ErrInvalidProfile, p.Name, p.G2EncodedSize, 2*p.WordSize)
	}
	return nil
}

// FieldPadding returns the number of zero bytes in front of every coordinate
// component.
func (p Profile) FieldPadding() int { return p.WordSize - p.FieldElementSize }

// ScalarPadding returns the number of zero bytes in front of every scalar.
func (p Profile) ScalarPadding() int { return p.ScalarWordSize - p.ScalarSize }

// PointSize returns the encoded size of a point of the given group.
func (p Profile) PointSize(id GroupID) int {
	if id == G2 {
		return p.G2EncodedSize
	}
	return p.G1EncodedSize
}

// Degree returns the extension degree of the coordinate field of the given
// group, as implied by its encoded size.
func (p Profile) Degree(id GroupID) int {
	return p.PointSize(id) / (2 * p.WordSize)
}

// MulInputSize is the input length of a single scalar multiplication.
func (p Profile) MulInputSize(id GroupID) int {
	return p.PointSize(id) + p.ScalarWordSize
}

// PairSize is the encoded size of one (G1, G2) pairing operand.
func (p Profile) PairSize() int {
	return p.G1EncodedSize + p.G2EncodedSize
}

func (p Profile) String() string {
	return p.Name
}
