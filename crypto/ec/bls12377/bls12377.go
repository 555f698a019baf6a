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

// Package bls12377 implements the ec capability interface for BLS12-377 on
// top of gnark-crypto, with the EIP-2539 calldata geometry: 48 byte field
// elements padded to 64 byte words, 32 byte scalars, and G2 over Fp2.
package bls12377

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls "github.com/consensys/gnark-crypto/ecc/bls12-377"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/ethvectors/ecvectors/crypto/ec"
)

// Profile is the EIP-2539 calldata geometry.
var Profile = ec.Profile{
	Name:             "BLS12-377",
	Prefix:           "bls12377",
	FieldElementSize: fp.Bytes,
	WordSize:         64,
	ScalarSize:       fr.Bytes,
	ScalarWordSize:   fr.Bytes,
	G1EncodedSize:    128,
	G2EncodedSize:    256,
}

var (
	g1Gen bls.G1Affine
	g2Gen bls.G2Affine

	// Curve constants: E: y² = x³ + 1 and the D-twist E': y² = x³ + 1/u.
	bCurve fp.Element
	bTwist bls.E2
)

func init() {
	_, _, g1Gen, g2Gen = bls.Generators()

	bCurve.SetOne()
	var u bls.E2
	u.A1.SetOne()
	bTwist.Inverse(&u)
}

// Affine point types of the two source groups.
type (
	G1 = bls.G1Affine
	G2 = bls.G2Affine
)

var (
	_ ec.Engine[bls.G1Affine, bls.G2Affine] = (*Engine)(nil)
	_ ec.Group[bls.G1Affine]                = g1Group{}
	_ ec.Group[bls.G2Affine]                = g2Group{}
)

// Engine is the BLS12-377 pairing engine.
type Engine struct{}

// New returns a BLS12-377 engine.
func New() *Engine { return new(Engine) }

func (*Engine) Profile() ec.Profile        { return Profile }
func (*Engine) G1() ec.Group[bls.G1Affine] { return g1Group{} }
func (*Engine) G2() ec.Group[bls.G2Affine] { return g2Group{} }
func (*Engine) BaseModulus() *big.Int      { return fp.Modulus() }
func (*Engine) ScalarModulus() *big.Int    { return fr.Modulus() }

func (*Engine) PairingCheck(p []bls.G1Affine, q []bls.G2Affine) (bool, error) {
	return bls.PairingCheck(p, q)
}

type g1Group struct{}

func (g1Group) ID() ec.GroupID                 { return ec.G1 }
func (g1Group) Degree() int                    { return 1 }
func (g1Group) Generator() bls.G1Affine        { return g1Gen }
func (g1Group) Infinity() bls.G1Affine         { return bls.G1Affine{} }
func (g1Group) IsInfinity(p bls.G1Affine) bool { return p.IsInfinity() }
func (g1Group) IsOnCurve(p bls.G1Affine) bool  { return p.IsOnCurve() }
func (g1Group) IsInSubgroup(p bls.G1Affine) bool {
	return p.IsInSubGroup()
}

func (g1Group) Add(a, b bls.G1Affine) bls.G1Affine {
	var (
		acc bls.G1Jac
		res bls.G1Affine
	)
	acc.FromAffine(&a)
	acc.AddMixed(&b)
	res.FromJacobian(&acc)
	return res
}

func (g1Group) ScalarMul(p bls.G1Affine, k *big.Int) bls.G1Affine {
	var res bls.G1Affine
	res.ScalarMultiplication(&p, k)
	return res
}

func (g1Group) Coordinates(p bls.G1Affine) [][]byte {
	return [][]byte{elementBytes(&p.X), elementBytes(&p.Y)}
}

func (g1Group) FromCoordinates(coords [][]byte) (bls.G1Affine, error) {
	var p bls.G1Affine
	if err := setElements(coords, &p.X, &p.Y); err != nil {
		return p, err
	}
	return p, nil
}

func (g1Group) RandomCoordinates(rng io.Reader) (bls.G1Affine, error) {
	var p bls.G1Affine
	if err := randomElements(rng, &p.X, &p.Y); err != nil {
		return p, err
	}
	return p, nil
}

func (g1Group) LiftX(rng io.Reader) (bls.G1Affine, bool, error) {
	var p bls.G1Affine
	if err := randomElements(rng, &p.X); err != nil {
		return p, false, err
	}
	var rhs fp.Element
	rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &bCurve)
	if p.Y.Sqrt(&rhs) == nil {
		return p, false, nil
	}
	return p, true, nil
}

type g2Group struct{}

func (g2Group) ID() ec.GroupID                 { return ec.G2 }
func (g2Group) Degree() int                    { return 2 }
func (g2Group) Generator() bls.G2Affine        { return g2Gen }
func (g2Group) Infinity() bls.G2Affine         { return bls.G2Affine{} }
func (g2Group) IsInfinity(p bls.G2Affine) bool { return p.IsInfinity() }
func (g2Group) IsOnCurve(p bls.G2Affine) bool  { return p.IsOnCurve() }
func (g2Group) IsInSubgroup(p bls.G2Affine) bool {
	return p.IsInSubGroup()
}

func (g2Group) Add(a, b bls.G2Affine) bls.G2Affine {
	var (
		acc bls.G2Jac
		res bls.G2Affine
	)
	acc.FromAffine(&a)
	acc.AddMixed(&b)
	res.FromJacobian(&acc)
	return res
}

func (g2Group) ScalarMul(p bls.G2Affine, k *big.Int) bls.G2Affine {
	var res bls.G2Affine
	res.ScalarMultiplication(&p, k)
	return res
}

func (g2Group) Coordinates(p bls.G2Affine) [][]byte {
	return [][]byte{
		elementBytes(&p.X.A0), elementBytes(&p.X.A1),
		elementBytes(&p.Y.A0), elementBytes(&p.Y.A1),
	}
}

func (g2Group) FromCoordinates(coords [][]byte) (bls.G2Affine, error) {
	var p bls.G2Affine
	if err := setElements(coords, &p.X.A0, &p.X.A1, &p.Y.A0, &p.Y.A1); err != nil {
		return p, err
	}
	return p, nil
}

func (g2Group) RandomCoordinates(rng io.Reader) (bls.G2Affine, error) {
	var p bls.G2Affine
	if err := randomElements(rng, &p.X.A0, &p.X.A1, &p.Y.A0, &p.Y.A1); err != nil {
		return p, err
	}
	return p, nil
}

func (g2Group) LiftX(rng io.Reader) (bls.G2Affine, bool, error) {
	var p bls.G2Affine
	if err := randomElements(rng, &p.X.A0, &p.X.A1); err != nil {
		return p, false, err
	}
	var rhs bls.E2
	rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &bTwist)
	// Sqrt over Fp2 does not detect non-residues, check first.
	if rhs.Legendre() == -1 {
		return p, false, nil
	}
	p.Y.Sqrt(&rhs)

	var check bls.E2
	if !check.Square(&p.Y).Equal(&rhs) {
		return p, false, nil
	}
	return p, true, nil
}

func elementBytes(e *fp.Element) []byte {
	b := e.Bytes()
	return b[:]
}

func setElements(coords [][]byte, elems ...*fp.Element) error {
	if len(coords) != len(elems) {
		return fmt.Errorf("bls12377: have %d coordinates, want %d", len(coords), len(elems))
	}
	for i, c := range coords {
		if len(c) != fp.Bytes {
			return fmt.Errorf("bls12377: coordinate %d has %d bytes, want %d", i, len(c), fp.Bytes)
		}
		if new(big.Int).SetBytes(c).Cmp(fp.Modulus()) >= 0 {
			return fmt.Errorf("bls12377: coordinate %d exceeds the field modulus", i)
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
