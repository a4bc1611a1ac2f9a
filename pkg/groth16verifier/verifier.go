// Copyright 2025 Certen Protocol
//
// Package groth16verifier verifies RISC Zero Groth16 receipts over BN254
// against a compiled-in verification key. It implements C3 of the
// verifier stack: given a seal and the claim it attests to, it accepts iff
// the pairing equation holds for the two public inputs derived from the
// claim digest.
package groth16verifier

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/backend/witness"

	"github.com/certen/independant-validator/pkg/receipt"
	"github.com/certen/independant-validator/pkg/seal"
	"github.com/certen/independant-validator/pkg/verifyerr"
)

// Verifier checks Groth16 BN254 seals against one compiled-in verification
// key and one selector. Both are set once at construction and never
// change: there is no mutation surface on a Verifier, only on the router
// that holds its address.
type Verifier struct {
	selector [4]byte
	vk       verificationKey
}

// New constructs a Verifier bound to the given selector and the package's
// compiled-in verification key.
func New(selector [4]byte) *Verifier {
	return &Verifier{
		selector: selector,
		vk:       defaultVKBytes.materialize(),
	}
}

// Selector returns the 4-byte selector this verifier was constructed with.
func (v *Verifier) Selector() [4]byte {
	return v.selector
}

// Verify builds the standard halted-execution claim from imageID and
// journalDigest, computes its digest, and checks seal against it.
func (v *Verifier) Verify(sealBytes []byte, imageID, journalDigest receipt.Digest32) error {
	claim := receipt.NewClaim(imageID, journalDigest)
	digest := claim.Digest()
	return v.VerifyIntegrity(receipt.Receipt{Seal: sealBytes, ClaimDigest: digest})
}

// VerifyIntegrity checks that r.Seal is a valid Groth16 proof of knowledge
// of a witness for r.ClaimDigest under v's verification key.
func (v *Verifier) VerifyIntegrity(r receipt.Receipt) error {
	selector, proof, err := seal.Parse(r.Seal)
	if err != nil {
		return err
	}
	if selector != v.selector {
		return verifyerr.Newf(verifyerr.InvalidSelector,
			"seal selector %x does not match verifier selector %x", selector, v.selector)
	}

	publicInputs, err := splitDigest(r.ClaimDigest)
	if err != nil {
		return err
	}

	gnarkProof := &groth16bn254.Proof{Ar: proof.A, Bs: proof.B, Krs: proof.C}

	gnarkVK := &groth16bn254.VerifyingKey{}
	gnarkVK.G1.Alpha = v.vk.alpha
	gnarkVK.G1.K = v.vk.ic[:]
	gnarkVK.G2.Beta = v.vk.beta
	gnarkVK.G2.Gamma = v.vk.gamma
	gnarkVK.G2.Delta = v.vk.delta
	if err := gnarkVK.Precompute(); err != nil {
		return verifyerr.Newf(verifyerr.InvalidProof, "verification key precompute: %v", err)
	}

	publicWitness, err := newPublicWitness(publicInputs)
	if err != nil {
		return err
	}

	if err := groth16.Verify(gnarkProof, gnarkVK, publicWitness); err != nil {
		return verifyerr.Newf(verifyerr.InvalidProof, "pairing check failed: %v", err)
	}

	return nil
}

// splitDigest derives the two BN254-scalar public inputs from a 32-byte
// claim digest: the high 16 bytes and the low 16 bytes, each read
// big-endian. Both halves always fit in the scalar field (128 bits versus
// a ~254-bit modulus), so this never itself produces
// MalformedPublicInputs — the check exists for defense in depth against a
// future change to the split.
func splitDigest(digest receipt.Digest32) ([2]*big.Int, error) {
	high := new(big.Int).SetBytes(digest[0:16])
	low := new(big.Int).SetBytes(digest[16:32])

	modulus := ecc.BN254.ScalarField()
	if high.Cmp(modulus) >= 0 || low.Cmp(modulus) >= 0 {
		return [2]*big.Int{}, verifyerr.New(verifyerr.MalformedPublicInputs,
			"claim digest half exceeds the BN254 scalar field")
	}

	return [2]*big.Int{high, low}, nil
}

func newPublicWitness(inputs [2]*big.Int) (witness.Witness, error) {
	w, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return nil, verifyerr.Newf(verifyerr.InvalidProof, "witness construction: %v", err)
	}

	channel := make(chan any, len(inputs))
	for _, in := range inputs {
		channel <- in
	}
	close(channel)

	if err := w.Fill(len(inputs), 0, channel); err != nil {
		return nil, verifyerr.Newf(verifyerr.MalformedPublicInputs, "witness fill: %v", err)
	}

	return w, nil
}
