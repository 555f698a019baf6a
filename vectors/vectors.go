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

// Package vectors generates conformance test vectors for pairing precompiles.
//
// A Generator drives a curve backend through the ec capability interface and
// produces, per operation, a suite of success vectors (input and expected
// output) and failure vectors (malformed input and the error tag a precompile
// is expected to report). Suites are persisted by a Writer as one JSON
// document per operation and outcome.
package vectors

import (
	"errors"
	"fmt"

	"github.com/ethvectors/ecvectors/common"
	"github.com/ethvectors/ecvectors/crypto/ec"
)

var (
	// ErrSamplingExhausted is returned when a rejection sampling loop does not
	// find an acceptable candidate within Config.MaxAttempts.
	ErrSamplingExhausted = errors.New("sampling attempts exhausted")

	// ErrSelfCheck is returned when the backend disagrees with a value the
	// generator constructed, e.g. a balanced pairing product that does not
	// evaluate to one.
	ErrSelfCheck = errors.New("self check failed")

	// ErrScalarRange is returned for scalars that do not fit the profile.
	ErrScalarRange = errors.New("scalar out of range")

	// ErrEncoding is returned when a backend serialization has the wrong size.
	ErrEncoding = errors.New("unexpected encoding size")

	errUnknownOp = errors.New("unknown operation")
)

// Error tags recorded in failure vectors.
const (
	TagInvalidLength   = "invalid input length"
	TagLargeField      = "must be less than modulus"
	TagNotOnCurve      = "point is not on curve"
	TagG1WrongSubgroup = "g1 point is not on correct subgroup"
	TagG2WrongSubgroup = "g2 point is not on correct subgroup"
)

// Op names one precompile operation.
type Op string

const (
	OpG1Add      Op = "g1_add"
	OpG1Mul      Op = "g1_mul"
	OpG1MultiExp Op = "g1_multiexp"
	OpG2Add      Op = "g2_add"
	OpG2Mul      Op = "g2_mul"
	OpG2MultiExp Op = "g2_multiexp"
	OpPairing    Op = "pairing"
)

// AllOps lists every operation in output order.
var AllOps = []Op{OpG1Add, OpG1Mul, OpG1MultiExp, OpG2Add, OpG2Mul, OpG2MultiExp, OpPairing}

// ParseOp converts an operation name to an Op.
func ParseOp(name string) (Op, error) {
	for _, op := range AllOps {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w %q", errUnknownOp, name)
}

// Group returns the source group an operation works in. Pairing spans both
// and reports zero.
func (op Op) Group() ec.GroupID {
	switch op {
	case OpG1Add, OpG1Mul, OpG1MultiExp:
		return ec.G1
	case OpG2Add, OpG2Mul, OpG2MultiExp:
		return ec.G2
	}
	return 0
}

// Hex is a byte slice that marshals to hex text without a 0x prefix. Both
// forms are accepted when unmarshaling.
type Hex []byte

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(common.Bytes2Hex(h)), nil
}

func (h *Hex) UnmarshalText(input []byte) error {
	b, err := common.ParseHex(string(input))
	if err != nil {
		return err
	}
	*h = b
	return nil
}

func (h Hex) String() string {
	return common.Bytes2Hex(h)
}

// Success is a well-formed input together with the exact expected output.
type Success struct {
	Input    Hex    `json:"input"`
	Expected Hex    `json:"expected"`
	Name     string `json:"name"`
}

// Failure is a malformed input together with the error tag it must trigger.
type Failure struct {
	Input         Hex    `json:"input"`
	ExpectedError string `json:"expected_error"`
	Name          string `json:"name"`
}

// Suite is every vector of one operation.
type Suite struct {
	Op      Op
	Success []Success
	Failure []Failure
}
