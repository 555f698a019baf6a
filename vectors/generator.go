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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ethvectors/ecvectors/common"
	"github.com/ethvectors/ecvectors/crypto/ec"
	"github.com/ethvectors/ecvectors/log"
)

// Config contains the knobs of a generation run.
type Config struct {
	// Count is the number of random success vectors per operation.
	Count int

	// MaxAttempts bounds every rejection sampling loop.
	MaxAttempts int

	// SelfCheck makes the generator evaluate every pairing vector with the
	// backend before emitting it.
	SelfCheck bool
}

// DefaultConfig contains the default generation settings.
var DefaultConfig = Config{
	Count:       100,
	MaxAttempts: 1000,
	SelfCheck:   true,
}

var errInvalidConfig = errors.New("invalid generator config")

func (c Config) validate() error {
	if c.Count < 1 {
		return fmt.Errorf("%w: count %d", errInvalidConfig, c.Count)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts %d", errInvalidConfig, c.MaxAttempts)
	}
	return nil
}

// Generator produces the vector suites of one curve. It owns its randomness
// source and is not safe for concurrent use.
type Generator[G1, G2 any] struct {
	engine ec.Engine[G1, G2]
	codec  *Codec
	config Config
	rng    io.Reader
	log    log.Logger

	g1 *groupSampler[G1]
	g2 *groupSampler[G2]

	oversized []byte // encoded base field modulus plus four
}

// NewGenerator validates the engine's profile and the config and returns a
// generator drawing all randomness from rng.
func NewGenerator[G1, G2 any](engine ec.Engine[G1, G2], config Config, rng io.Reader) (*Generator[G1, G2], error) {
	codec, err := NewCodec(engine.Profile())
	if err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	oversized, err := encodeOversized(codec, engine.BaseModulus())
	if err != nil {
		return nil, err
	}
	logger := log.New("curve", engine.Profile().Name)
	order := engine.ScalarModulus()
	return &Generator[G1, G2]{
		engine: engine,
		codec:  codec,
		config: config,
		rng:    rng,
		log:    logger,
		g1: &groupSampler[G1]{
			group:       engine.G1(),
			codec:       codec,
			order:       order,
			rng:         rng,
			maxAttempts: config.MaxAttempts,
			log:         logger,
		},
		g2: &groupSampler[G2]{
			group:       engine.G2(),
			codec:       codec,
			order:       order,
			rng:         rng,
			maxAttempts: config.MaxAttempts,
			log:         logger,
		},
		oversized: oversized,
	}, nil
}

// Profile returns the geometry of the generator's curve.
func (g *Generator[G1, G2]) Profile() ec.Profile {
	return g.codec.Profile()
}

// Positive returns the success vectors of op.
func (g *Generator[G1, G2]) Positive(op Op) ([]Success, error) {
	n := g.config.Count
	switch op {
	case OpG1Add:
		return g.g1.addVectors(op, n)
	case OpG1Mul:
		return g.g1.mulVectors(op, n)
	case OpG1MultiExp:
		return g.g1.multiExpVectors(op, n)
	case OpG2Add:
		return g.g2.addVectors(op, n)
	case OpG2Mul:
		return g.g2.mulVectors(op, n)
	case OpG2MultiExp:
		return g.g2.multiExpVectors(op, n)
	case OpPairing:
		return g.pairingVectors(n)
	}
	return nil, fmt.Errorf("%w %q", errUnknownOp, op)
}

// Negative returns the failure vectors of op.
func (g *Generator[G1, G2]) Negative(op Op) ([]Failure, error) {
	switch op {
	case OpG1Add:
		return g.g1.addFailures(g.oversized)
	case OpG1Mul:
		return g.g1.mulFailures(g.oversized)
	case OpG1MultiExp:
		return g.g1.multiExpFailures(g.oversized)
	case OpG2Add:
		return g.g2.addFailures(g.oversized)
	case OpG2Mul:
		return g.g2.mulFailures(g.oversized)
	case OpG2MultiExp:
		return g.g2.multiExpFailures(g.oversized)
	case OpPairing:
		return g.pairingFailures()
	}
	return nil, fmt.Errorf("%w %q", errUnknownOp, op)
}

// Suite builds every vector of op.
func (g *Generator[G1, G2]) Suite(op Op) (Suite, error) {
	start := time.Now()
	success, err := g.Positive(op)
	if err != nil {
		return Suite{}, fmt.Errorf("%s %s: %w", g.Profile(), op, err)
	}
	failure, err := g.Negative(op)
	if err != nil {
		return Suite{}, fmt.Errorf("%s %s fail: %w", g.Profile(), op, err)
	}
	g.log.Debug("Generated vectors", "op", op, "success", len(success), "failure", len(failure), "elapsed", common.PrettyDuration(time.Since(start)))
	return Suite{Op: op, Success: success, Failure: failure}, nil
}
