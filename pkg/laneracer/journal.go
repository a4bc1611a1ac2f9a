// Copyright 2025 Certen Protocol
//
// Package laneracer implements C6, the LaneRacer game contract's use of the
// verifier router as an external oracle. The prover host re-simulates a
// player's run inside a RISC Zero guest program and commits a GameResult
// to the journal; this package canonically encodes that same journal
// schema (GameResult.Digest), and the Adapter forwards the
// (seal, image_id, journal_digest) a player submits to the router. The
// Adapter uses the journal digest carried in the submitted ZKProof; it does
// not compute it from a GameResult.
package laneracer

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/certen/independant-validator/pkg/receipt"
)

// GameResult is the public journal the guest program commits: the
// re-simulated outcome of a player's run. Field order and names mirror
// the guest's own schema exactly — this is an external contract between
// the prover host and this consumer, not an internal implementation
// detail either side is free to rearrange.
type GameResult struct {
	PlayerAddress     string
	GameID            uint64
	Score             uint32
	ObstaclesDodged   uint32
	GemsCollected     uint32
	SpeedReached      uint32
	CollisionOccurred bool
}

// journalABI describes GameResult's canonical ABI encoding, the same
// go-ethereum abi.Pack approach the BN254 BLS prover uses to turn a Go
// struct into Solidity-compatible calldata.
var journalABI = mustParseABI(`[{
	"type": "function",
	"name": "encodeGameResult",
	"inputs": [
		{"name": "playerAddress", "type": "string"},
		{"name": "gameId", "type": "uint64"},
		{"name": "score", "type": "uint32"},
		{"name": "obstaclesDodged", "type": "uint32"},
		{"name": "gemsCollected", "type": "uint32"},
		{"name": "speedReached", "type": "uint32"},
		{"name": "collisionOccurred", "type": "bool"}
	]
}]`)

func mustParseABI(abiJSON string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("laneracer: failed to parse journal ABI: %v", err))
	}
	return parsed
}

// Encode canonically ABI-encodes g in the journal schema's field order.
func (g GameResult) Encode() ([]byte, error) {
	encoded, err := journalABI.Pack("encodeGameResult",
		g.PlayerAddress,
		g.GameID,
		g.Score,
		g.ObstaclesDodged,
		g.GemsCollected,
		g.SpeedReached,
		g.CollisionOccurred,
	)
	if err != nil {
		return nil, fmt.Errorf("abi encode game result: %w", err)
	}
	// Drop the 4-byte method selector: the journal is the encoded fields,
	// not a contract call.
	if len(encoded) < 4 {
		return nil, fmt.Errorf("abi encode game result: unexpectedly short output")
	}
	return encoded[4:], nil
}

// Digest returns SHA256 of g's canonical encoding: the journal_digest the
// verifier treats as an opaque public input.
func (g GameResult) Digest() (receipt.Digest32, error) {
	encoded, err := g.Encode()
	if err != nil {
		return receipt.Digest32{}, err
	}
	return sha256.Sum256(encoded), nil
}
