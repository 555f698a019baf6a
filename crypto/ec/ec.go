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

// Package ec defines the arithmetic a vector generator consumes from a
// pairing-friendly curve implementation, together with the calldata byte
// geometry of each curve family.
//
// Backends live in sub-packages (bls12377, bw6761). Nothing in this package
// performs arithmetic itself.
package ec

import (
	"io"
	"math/big"
)

// GroupID names one of the two source groups of a pairing.
type GroupID int

const (
	G1 GroupID = iota + 1
	G2
)

func (id GroupID) String() string {
	switch id {
	case G1:
		return "g1"
	case G2:
		return "g2"
	default:
		return "unknown"
	}
}

// Group is the affine point arithmetic of one curve group. P is the backend's
// affine point type; values are treated as immutable.
type Group[P any] interface {
	// ID reports whether this is G1 or G2.
	ID() GroupID

	// Degree is the extension degree of the coordinate field.
	Degree() int

	// Generator returns the fixed generator of the prime order subgroup.
	Generator() P

	// Infinity returns the identity element.
	Infinity() P

	IsInfinity(p P) bool

	Add(a, b P) P

	// ScalarMul returns k·p. k may be zero or exceed the group order.
	ScalarMul(p P, k *big.Int) P

	IsOnCurve(p P) bool

	// IsInSubgroup reports membership of the prime order subgroup. The result
	// is only meaningful for points on the curve.
	IsInSubgroup(p P) bool

	// Coordinates returns the affine coordinate components in calldata order
	// (x.c0, x.c1, ..., y.c0, y.c1, ...), each as canonical big-endian bytes
	// of the curve's field element size.
	Coordinates(p P) [][]byte

	// FromCoordinates is the inverse of Coordinates. No curve or subgroup
	// checks are performed.
	FromCoordinates(coords [][]byte) (P, error)

	// RandomCoordinates samples every coordinate component independently,
	// without regard to the curve equation.
	RandomCoordinates(rng io.Reader) (P, error)

	// LiftX samples a random x and solves the curve equation for y. The
	// boolean is false if x is not the abscissa of any curve point.
	LiftX(rng io.Reader) (P, bool, error)
}

// Engine bundles both groups of a pairing-friendly curve with its pairing.
type Engine[G1, G2 any] interface {
	// Profile returns the calldata geometry of the curve family.
	Profile() Profile

	G1() Group[G1]
	G2() Group[G2]

	// BaseModulus is the characteristic of the coordinate field.
	BaseModulus() *big.Int

	// ScalarModulus is the prime order r of both subgroups.
	ScalarModulus() *big.Int

	// PairingCheck reports whether ∏ e(p[i], q[i]) is the identity of the
	// target group.
	PairingCheck(p []G1, q []G2) (bool, error)
}
