// Copyright 2025 Certen Protocol
//
// Package seal decodes the fixed 260-byte Groth16 seal wire format into a
// 4-byte selector plus the three proof points (A, B, C). Decoding is
// deliberately strict: any length mismatch, out-of-range field element, or
// off-curve/off-subgroup point is rejected here rather than deferred to the
// pairing check, matching the byte layout in the verifier contract this
// package ports.
package seal

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/certen/independant-validator/pkg/verifyerr"
)

const (
	selectorSize = 4
	fieldSize    = 32
	g1Size       = 2 * fieldSize
	g2Size       = 4 * fieldSize
	// Size is the total wire length of a Groth16 seal: selector ‖ A ‖ B ‖ C.
	Size = selectorSize + g1Size + g2Size + g1Size
)

// Proof is a decoded Groth16 proof over BN254: A, C in G1 and B in G2.
type Proof struct {
	A bn254.G1Affine
	B bn254.G2Affine
	C bn254.G1Affine
}

// Parse decodes a 260-byte seal into its selector and proof points.
//
// Layout: selector(4) ‖ A_x(32) ‖ A_y(32) ‖ B_x0(32) ‖ B_x1(32) ‖ B_y0(32) ‖
// B_y1(32) ‖ C_x(32) ‖ C_y(32), all big-endian. This is the direct
// coordinate order, not the Solidity-swapped (x1,x0,y1,y0) convention some
// EVM verifiers use.
func Parse(data []byte) (selector [selectorSize]byte, proof Proof, err error) {
	if len(data) != Size {
		return selector, proof, verifyerr.Newf(verifyerr.MalformedSeal,
			"seal length %d, want %d", len(data), Size)
	}

	copy(selector[:], data[0:selectorSize])

	modulus := ecc.BN254.BaseField()
	for off := selectorSize; off < Size; off += fieldSize {
		if new(big.Int).SetBytes(data[off:off+fieldSize]).Cmp(modulus) >= 0 {
			return selector, proof, verifyerr.Newf(verifyerr.MalformedSeal,
				"field element at offset %d is not below the base field modulus", off)
		}
	}

	offset := selectorSize
	if err := decodeG1(data[offset:offset+g1Size], &proof.A); err != nil {
		return selector, proof, err
	}
	offset += g1Size

	if err := decodeG2(data[offset:offset+g2Size], &proof.B); err != nil {
		return selector, proof, err
	}
	offset += g2Size

	if err := decodeG1(data[offset:offset+g1Size], &proof.C); err != nil {
		return selector, proof, err
	}

	return selector, proof, nil
}

func decodeG1(b []byte, p *bn254.G1Affine) error {
	p.X.SetBytes(b[0:fieldSize])
	p.Y.SetBytes(b[fieldSize : 2*fieldSize])

	if p.X.IsZero() && p.Y.IsZero() {
		// the point at infinity has no affine representation in this
		// encoding; reject rather than silently accepting (0,0) as a point
		// on the curve.
		return verifyerr.New(verifyerr.MalformedSeal, "G1 point at infinity")
	}
	if !p.IsOnCurve() {
		return verifyerr.New(verifyerr.MalformedSeal, "G1 point not on curve")
	}
	if !p.IsInSubGroup() {
		return verifyerr.New(verifyerr.MalformedSeal, "G1 point not in subgroup")
	}
	return nil
}

func decodeG2(b []byte, p *bn254.G2Affine) error {
	p.X.A0.SetBytes(b[0:fieldSize])
	p.X.A1.SetBytes(b[fieldSize : 2*fieldSize])
	p.Y.A0.SetBytes(b[2*fieldSize : 3*fieldSize])
	p.Y.A1.SetBytes(b[3*fieldSize : 4*fieldSize])

	if p.X.IsZero() && p.Y.IsZero() {
		return verifyerr.New(verifyerr.MalformedSeal, "G2 point at infinity")
	}
	if !p.IsOnCurve() {
		return verifyerr.New(verifyerr.MalformedSeal, "G2 point not on curve")
	}
	if !p.IsInSubGroup() {
		return verifyerr.New(verifyerr.MalformedSeal, "G2 point not in subgroup")
	}
	return nil
}
