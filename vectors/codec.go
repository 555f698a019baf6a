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
	"github.com/ethvectors/ecvectors/crypto/ec"
)

// Codec produces the fixed-width big-endian calldata encodings of one curve
// profile. It is stateless apart from the profile and safe for concurrent use.
type Codec struct {
	profile ec.Profile
}

// NewCodec validates the profile and returns a codec for it.
func NewCodec(profile ec.Profile) (*Codec, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Codec{profile: profile}, nil
}

// Profile returns the geometry the codec encodes for.
func (c *Codec) Profile() ec.Profile { return c.profile }

// EncodeFieldElement left pads a canonical big-endian field element to the
// profile's word size.
func (c *Codec) EncodeFieldElement(fe []byte) ([]byte, error) {
	if len(fe) != c.profile.FieldElementSize {
		return nil, fmt.Errorf("%w: field element has %d bytes, want %d", ErrEncoding, len(fe), c.profile.FieldElementSize)
	}
	return common.LeftPadBytes(fe, c.profile.WordSize), nil
}

// EncodeScalar encodes k big-endian, left padded to the scalar word size.
func (c *Codec) EncodeScalar(k *big.Int) ([]byte, error) {
	if k.Sign() < 0 || (k.BitLen()+7)/8 > c.profile.ScalarSize {
		return nil, fmt.Errorf("%w: %v does not fit in %d bytes", ErrScalarRange, k, c.profile.ScalarSize)
	}
	return k.FillBytes(make([]byte, c.profile.ScalarWordSize)), nil
}

// Infinity returns the all-zero encoding of the identity of the given group.
func (c *Codec) Infinity(id ec.GroupID) []byte {
	return make([]byte, c.profile.PointSize(id))
}

// EncodePoint encodes p as its padded coordinate components in calldata order.
// The identity always encodes as Infinity, whatever the backend's internal
// representation of it.
func EncodePoint[P any](c *Codec, g ec.Group[P], p P) ([]byte, error) {
	if g.IsInfinity(p) {
		return c.Infinity(g.ID()), nil
	}
	coords := g.Coordinates(p)
	if want := 2 * c.profile.Degree(g.ID()); len(coords) != want {
		return nil, fmt.Errorf("%w: %v point has %d coordinate components, want %d", ErrEncoding, g.ID(), len(coords), want)
	}
	enc := make([]byte, 0, c.profile.PointSize(g.ID()))
	for _, fe := range coords {
		word, err := c.EncodeFieldElement(fe)
		if err != nil {
			return nil, err
		}
		enc = append(enc, word...)
	}
	return enc, nil
}
