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

// Package bw6761 implements the ec capability interface for BW6-761 on top of
// gnark-crypto, with the EIP-3026 calldata geometry: unpadded 96 byte field
// elements, 48 byte scalars padded to two EVM words, and both groups over Fp.
package bw6761

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bw6 "github.com/consensys/gnark-crypto/ecc/bw6-761"
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fp"
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr"
	"github.com/ethvectors/ecvectors/crypto/ec"
)

const evmWordSize = 32

// Profile is the EIP-3026 calldata geometry.
var Profile = ec.Profile{
	Name:             "BW6-761",
	Prefix:           "bw6",
	FieldElementSize: fp.Bytes,
	WordSize:         fp.Bytes,
	ScalarSize:       fr.Bytes,
	ScalarWordSize:   2 * evmWordSize,
	G1EncodedSize:    2 * fp.Bytes,
	G2EncodedSize:    2 * fp.Bytes,
}

var (
	g1Gen bw6.G1Affine
	g2Gen bw6.G2Affine

	// Curve constants: E: y² = x³ - 1 and the M-twist E': y² = x³ + 4.
	bCurve fp.Element
	bTwist fp.Element
)

func init() {
	_, _, g1Gen, g2Gen = bw6.Generators()

	bCurve.SetOne().Neg(&bCurve)
	bTwist.SetUint64(4)
}

// Affine point types of the two source groups.
type (
	G1 = bw6.G1Affine
	G2 = bw6.G2Affine
)

var (
	_ ec.Engine[bw6.G1Affine, bw6.G2Affine] = (*Engine)(nil)
	_ ec.Group[bw6.G1Affine]                = g1Group{}
	_ ec.Group[bw6.G2Affine]                = g2Group{}
)

// Engine is the BW6-761 pairing engine.
type Engine struct{}

// New returns a BW6-761 engine.
func New() *Engine { return new(Engine) }

func (*Engine) Profile() ec.Profile        { return Profile }
func (*Engine) G1() ec.Group[bw6.G1Affine] { return g1Group{} }
func (*Engine) G2() ec.Group[bw6.G2Affine] { return g2Group{} }
func (*Engine) BaseModulus() *big.Int      { return fp.Modulus() }
func (*Engine) ScalarModulus() *big.Int    { return fr.Modulus() }

func (*Engine) PairingCheck(p []bw6.G1Affine, q []bw6.G2Affine) (bool, error) {
	return bw6.PairingCheck(p, q)
}

type g1Group struct{}

func (g1Group) ID() ec.GroupID                   { return ec.G1 }
func (g1Group) Degree() int                      { return 1 }
func (g1Group) Generator() bw6.G1Affine          { return g1Gen }
func (g1Group) Infinity() bw6.G1Affine           { return bw6.G1Affine{} }
func (g1Group) IsInfinity(p bw6.G1Affine) bool   { return p.IsInfinity() }
func (g1Group) IsOnCurve(p bw6.G1Affine) bool    { return p.IsOnCurve() }
func (g1Group) IsInSubgroup(p bw6.G1Affine) bool { return p.IsInSubGroup() }

func (g1Group) Add(a, b bw6.G1Affine) bw6.G1Affine {
	var (
		acc bw6.G1Jac
		res bw6.G1Affine
	)
	acc.FromAffine(&a)
	acc.AddMixed(&b)
	res.FromJacobian(&acc)
	return res
}

func (g1Group) ScalarMul(p bw6.G1Affine, k *big.Int) bw6.G1Affine {
	var res bw6.G1Affine
	res.ScalarMultiplication(&p, k)
	return res
}

func (g1Group) Coordinates(p bw6.G1Affine) [][]byte {
	return [][]byte{elementBytes(&p.X), elementBytes(&p.Y)}
}

func (g1Group) FromCoordinates(coords [][]byte) (bw6.G1Affine, error) {
	var p bw6.G1Affine
	err := setElements(coords, &p.X, &p.Y)
	return p, err
}

func (g1Group) RandomCoordinates(rng io.Reader) (bw6.G1Affine, error) {
	var p bw6.G1Affine
	err := randomElements(rng, &p.X, &p.Y)
	return p, err
}

func (g1Group) LiftX(rng io.Reader) (bw6.G1Affine, bool, error) {
	var p bw6.G1Affine
	ok, err := liftX(rng, &p.X, &p.Y, &bCurve)
	return p, ok, err
}

type g2Group struct{}

func (g2Group) ID() ec.GroupID                   { return ec.G2 }
func (g2Group) Degree() int                      { return 1 }
func (g2Group) Generator() bw6.G2Affine          { return g2Gen }
func (g2Group) Infinity() bw6.G2Affine           { return bw6.G2Affine{} }
func (g2Group) IsInfinity(p bw6.G2Affine) bool   { return p.IsInfinity() }
func (g2Group) IsOnCurve(p bw6.G2Affine) bool    { return p.IsOnCurve() }
func (g2Group) IsInSubgroup(p bw6.G2Affine) bool { return p.IsInSubGroup() }

func (g2Group) Add(a, b bw6.G2Affine) bw6.G2Affine {
	var (
		acc bw6.G2Jac
		res bw6.G2Affine
	)
	acc.FromAffine(&a)
	acc.AddMixed(&b)
	res.FromJacobian(&acc)
	return res
}

func (g2Group) ScalarMul(p bw6.G2Affine, k *big.Int) bw6.G2Affine {
	var res bw6.G2Affine
	res.ScalarMultiplication(&p, k)
	return res
}

func (g2Group) Coordinates(p bw6.G2Affine) [][]byte {
	return [][]byte{elementBytes(&p.X), elementBytes(&p.Y)}
}

func (g2Group) FromCoordinates(coords [][]byte) (bw6.G2Affine, error) {
	var p bw6.G2Affine
	err := setElements(coords, &p.X, &p.Y)
	return p, err
}

func (g2Group) RandomCoordinates(rng io.Reader) (bw6.G2Affine, error) {
	var p bw6.G2Affine
	err := randomElements(rng, &p.X, &p.Y)
	return p, err
}

func (g2Group) LiftX(rng io.Reader) (bw6.G2Affine, bool, error) {
	var p bw6.G2Affine
	ok, err := liftX(rng, &p.X, &p.Y, &bTwist)
	return p, ok, err
}

// liftX samples x and sets y to a root of x³ + b, if there is one.
func liftX(rng io.Reader, x, y, b *fp.Element) (bool, error) {
	if err := randomElements(rng, x); err != nil {
		return false, err
	}
	var rhs fp.Element
	rhs.Square(x).Mul(&rhs, x).Add(&rhs, b)
	return y.Sqrt(&rhs) != nil, nil
}

func elementBytes(e *fp.Element) []byte {
	b := e.Bytes()
	return b[:]
}

func setElements(coords [][]byte, elems ...*fp.Element) error {
	if len(coords) != len(elems) {
		return fmt.Errorf("bw6761: have %d coordinates, want %d", len(coords), len(elems))
	}
	for i, c := range coords {
		if len(c) != fp.Bytes {
			return fmt.Errorf("bw6761: coordinate %d has %d bytes, want %d", i, len(c), fp.Bytes)
		}
		if new(big.Int).SetBytes(c).Cmp(fp.Modulus()) >= 0 {
			return fmt.Errorf("bw6761: coordinate %d exceeds the field modulus", i)
		}
		elems[i].SetBytes(c)
	}
	return nil
}

func randomElements(rng io.Reader, elems ...*fp.Element) error {
	modulus := fp.Modulus()
	for _, e := range elems {
		v, err := rand.Int(rng, modulus)
		if err != nil {
			return err
		}
		e.SetBigInt(v)
	}
	return nil
}
