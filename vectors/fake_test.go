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
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/ethvectors/ecvectors/crypto/ec"
)

// The fake curve is the line y = 7x over Z_N with N = r·h. Points with x a
// multiple of h form the subgroup of prime order r generated by (h, 7h), and
// the "pairing" of two subgroup points is the product of their discrete logs
// mod r. It is tiny and fast but still exercises every failure category.
const (
	fakeOrder    = 2147483647 // 2^31 - 1
	fakeCofactor = 6
	fakeModulus  = fakeOrder * fakeCofactor
	fakeSlope    = 7
)

var fakeProfile = ec.Profile{
	Name:             "FAKE",
	Prefix:           "fake",
	FieldElementSize: 8,
	WordSize:         16,
	ScalarSize:       4,
	ScalarWordSize:   8,
	G1EncodedSize:    32,
	G2EncodedSize:    64,
}

type fakePoint struct {
	x, y uint64
}

type fakeGroup struct {
	id     ec.GroupID
	degree int

	offCurveNever bool // RandomCoordinates always lands on the curve
}

func (g fakeGroup) ID() ec.GroupID                { return g.id }
func (g fakeGroup) Degree() int                   { return g.degree }
func (g fakeGroup) Generator() fakePoint          { return fakePoint{fakeCofactor, fakeSlope * fakeCofactor} }
func (g fakeGroup) Infinity() fakePoint           { return fakePoint{} }
func (g fakeGroup) IsInfinity(p fakePoint) bool   { return p == fakePoint{} }
func (g fakeGroup) IsOnCurve(p fakePoint) bool    { return p.y == fakeSlope*p.x%fakeModulus }
func (g fakeGroup) IsInSubgroup(p fakePoint) bool { return p.x%fakeCofactor == 0 }

func (g fakeGroup) Add(a, b fakePoint) fakePoint {
	return fakePoint{(a.x + b.x) % fakeModulus, (a.y + b.y) % fakeModulus}
}

func (g fakeGroup) ScalarMul(p fakePoint, k *big.Int) fakePoint {
	n := big.NewInt(fakeModulus)
	mul := func(v uint64) uint64 {
		r := new(big.Int).Mul(new(big.Int).SetUint64(v), k)
		return r.Mod(r, n).Uint64()
	}
	return fakePoint{mul(p.x), mul(p.y)}
}

// Coordinates pads every coordinate to the extension degree with zero
// higher components.
func (g fakeGroup) Coordinates(p fakePoint) [][]byte {
	coords := make([][]byte, 0, 2*g.degree)
	for _, v := range []uint64{p.x, p.y} {
		coords = append(coords, binary.BigEndian.AppendUint64(nil, v))
		for i := 1; i < g.degree; i++ {
			coords = append(coords, make([]byte, 8))
		}
	}
	return coords
}

func (g fakeGroup) FromCoordinates(coords [][]byte) (fakePoint, error) {
	if len(coords) != 2*g.degree {
		return fakePoint{}, errors.New("fake: wrong coordinate count")
	}
	var vals []uint64
	for _, c := range coords {
		if len(c) != 8 {
			return fakePoint{}, errors.New("fake: wrong coordinate size")
		}
		v := binary.BigEndian.Uint64(c)
		if v >= fakeModulus {
			return fakePoint{}, errors.New("fake: coordinate exceeds modulus")
		}
		vals = append(vals, v)
	}
	return fakePoint{vals[0], vals[g.degree]}, nil
}

func (g fakeGroup) RandomCoordinates(rng io.Reader) (fakePoint, error) {
	x, err := fakeElement(rng)
	if err != nil {
		return fakePoint{}, err
	}
	if g.offCurveNever {
		return fakePoint{x, fakeSlope * x % fakeModulus}, nil
	}
	y, err := fakeElement(rng)
	if err != nil {
		return fakePoint{}, err
	}
	return fakePoint{x, y}, nil
}

func (g fakeGroup) LiftX(rng io.Reader) (fakePoint, bool, error) {
	x, err := fakeElement(rng)
	if err != nil {
		return fakePoint{}, false, err
	}
	return fakePoint{x, fakeSlope * x % fakeModulus}, true, nil
}

func fakeElement(rng io.Reader) (uint64, error) {
	v, err := rand.Int(rng, big.NewInt(fakeModulus))
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

type fakeEngine struct {
	g1, g2 fakeGroup

	brokenPairing bool // PairingCheck always reports false
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		g1: fakeGroup{id: ec.G1, degree: 1},
		g2: fakeGroup{id: ec.G2, degree: 2},
	}
}

func (e *fakeEngine) Profile() ec.Profile     { return fakeProfile }
func (e *fakeEngine) G1() ec.Group[fakePoint] { return e.g1 }
func (e *fakeEngine) G2() ec.Group[fakePoint] { return e.g2 }
func (e *fakeEngine) BaseModulus() *big.Int   { return big.NewInt(fakeModulus) }
func (e *fakeEngine) ScalarModulus() *big.Int { return big.NewInt(fakeOrder) }

func (e *fakeEngine) PairingCheck(p, q []fakePoint) (bool, error) {
	if len(p) != len(q) {
		return false, errors.New("fake: pair count mismatch")
	}
	if e.brokenPairing {
		return false, nil
	}
	var (
		order = big.NewInt(fakeOrder)
		acc   = new(big.Int)
	)
	for i := range p {
		a := new(big.Int).SetUint64(p[i].x / fakeCofactor)
		b := new(big.Int).SetUint64(q[i].x / fakeCofactor)
		acc.Add(acc, a.Mul(a, b)).Mod(acc, order)
	}
	return acc.Sign() == 0, nil
}
