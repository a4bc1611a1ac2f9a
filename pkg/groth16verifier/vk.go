// Copyright 2025 Certen Protocol

package groth16verifier

import "github.com/consensys/gnark-crypto/ecc/bn254"

const (
	g1ByteSize = 64  // x(32) || y(32)
	g2ByteSize = 128 // x0(32) || x1(32) || y0(32) || y1(32)
	// icLen is the length of the compiled public-input commitment table.
	// Only 2 scalars are derived from a claim digest (the high and low 128
	// bits); the remaining ic entries are reserved for upstream RISC Zero
	// control-root commitments folded into the same circuit and are not
	// reproducible without the production verification key.
	icLen = 6
)

// verificationKeyBytes is the raw, build-time form of a Groth16 BN254
// verification key: right-shaped byte arrays materialized into curve
// points via materialize each time a Verifier is constructed (see New).
//
// THE KEY BELOW IS A STRUCTURAL PLACEHOLDER, NOT A PRODUCTION KEY. The real
// RISC Zero Groth16 verification key is generated by an upstream trusted
// setup and baked in at build time (mirroring the Rust contract's
// build.rs-generated VerificationKeyBytes); it is not reproducible offline.
// A deployment of this package MUST replace every field below with the
// real compiled key before it can accept genuine RISC Zero proofs. Until
// then, every call to Verify/VerifyIntegrity against this key will reject
// as InvalidProof, which is the fail-closed behavior this placeholder is
// meant to produce.
type verificationKeyBytes struct {
	alpha [g1ByteSize]byte
	beta  [g2ByteSize]byte
	gamma [g2ByteSize]byte
	delta [g2ByteSize]byte
	ic    [icLen][g1ByteSize]byte
}

var defaultVKBytes = verificationKeyBytes{}

// verificationKey is the materialized form of a verification key: live
// curve points only. Pairing precomputation is done on the gnark key that
// VerifyIntegrity builds from these points on every call.
type verificationKey struct {
	alpha bn254.G1Affine
	beta  bn254.G2Affine
	gamma bn254.G2Affine
	delta bn254.G2Affine
	ic    [icLen]bn254.G1Affine
}

// materialize decodes raw verification-key bytes into live curve points.
// It does not reject off-curve points: a verification key is a trusted,
// compiled-in constant, not untrusted input, so the strict validation the
// seal codec applies to proof points does not apply here.
func (b verificationKeyBytes) materialize() verificationKey {
	var vk verificationKey

	vk.alpha.X.SetBytes(b.alpha[0:32])
	vk.alpha.Y.SetBytes(b.alpha[32:64])

	decodeG2Bytes(b.beta, &vk.beta)
	decodeG2Bytes(b.gamma, &vk.gamma)
	decodeG2Bytes(b.delta, &vk.delta)

	for i, icBytes := range b.ic {
		vk.ic[i].X.SetBytes(icBytes[0:32])
		vk.ic[i].Y.SetBytes(icBytes[32:64])
	}

	return vk
}

func decodeG2Bytes(b [g2ByteSize]byte, p *bn254.G2Affine) {
	p.X.A0.SetBytes(b[0:32])
	p.X.A1.SetBytes(b[32:64])
	p.Y.A0.SetBytes(b[64:96])
	p.Y.A1.SetBytes(b[96:128])
}
