// Copyright 2025 Certen Protocol
//
// Package mockverifier implements C4 of the verifier stack: a
// development-mode backend that performs no cryptography. It exists to
// unblock end-to-end testing against the router without paying proving
// cost, and exposes the same Verify/VerifyIntegrity interface as the real
// Groth16 verifier.
//
// !!! DANGER: do not deploy this verifier in production. It accepts any
// seal that matches the mock format; it provides no security guarantees.
package mockverifier

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen/independant-validator/pkg/receipt"
	"github.com/certen/independant-validator/pkg/verifyerr"
)

// Mock is a non-cryptographic verifier: a "seal" is simply
// selector ‖ claim_digest, and verification checks keccak256 equality
// rather than a pairing.
type Mock struct {
	selector [4]byte
}

// New constructs a Mock bound to the given selector.
func New(selector [4]byte) *Mock {
	return &Mock{selector: selector}
}

// Selector returns the 4-byte selector this verifier was constructed with.
func (m *Mock) Selector() [4]byte {
	return m.selector
}

// MockProve builds a claim from imageID and journalDigest and returns the
// corresponding mock receipt.
func (m *Mock) MockProve(imageID, journalDigest receipt.Digest32) receipt.Receipt {
	claim := receipt.NewClaim(imageID, journalDigest)
	return m.MockProveClaim(claim.Digest())
}

// MockProveClaim builds a mock receipt directly from a precomputed claim
// digest: seal is selector ‖ claim_digest.
func (m *Mock) MockProveClaim(claimDigest receipt.Digest32) receipt.Receipt {
	seal := make([]byte, 0, 4+32)
	seal = append(seal, m.selector[:]...)
	seal = append(seal, claimDigest[:]...)
	return receipt.Receipt{Seal: seal, ClaimDigest: claimDigest}
}

// Verify builds the standard halted-execution claim from imageID and
// journalDigest and checks sealBytes against it.
func (m *Mock) Verify(sealBytes []byte, imageID, journalDigest receipt.Digest32) error {
	claim := receipt.NewClaim(imageID, journalDigest)
	digest := claim.Digest()
	return m.VerifyIntegrity(receipt.Receipt{Seal: sealBytes, ClaimDigest: digest})
}

// VerifyIntegrity checks r.Seal against r.ClaimDigest: the seal must be at
// least 4 bytes, its first 4 bytes must match the configured selector, and
// keccak256(seal[4:]) must equal keccak256(claim_digest).
func (m *Mock) VerifyIntegrity(r receipt.Receipt) error {
	if len(r.Seal) < 4 {
		return verifyerr.New(verifyerr.MalformedSeal, "mock seal shorter than the 4-byte selector")
	}

	var selector [4]byte
	copy(selector[:], r.Seal[0:4])
	if selector != m.selector {
		return verifyerr.Newf(verifyerr.InvalidSelector,
			"seal selector %x does not match verifier selector %x", selector, m.selector)
	}

	sealHash := crypto.Keccak256(r.Seal[4:])
	claimHash := crypto.Keccak256(r.ClaimDigest[:])

	if !bytes.Equal(sealHash, claimHash) {
		return verifyerr.New(verifyerr.InvalidProof, "mock seal does not attest to the claim digest")
	}

	return nil
}
