// Copyright 2025 Certen Protocol
//
// Package receipt implements the canonical RISC Zero receipt claim types and
// their domain-separated SHA-256 digests. The tag constants and byte layout
// below are a protocol contract with the upstream RISC Zero zkVM and the
// Groth16 seal it produces: any deviation invalidates every previously
// issued proof, so they are reproduced exactly and never recomputed.
package receipt

// Digest32 is a 32-byte SHA-256 digest, used throughout the receipt claim
// structures for image IDs, journal digests, and state digests.
type Digest32 = [32]byte

// SystemExitCode identifies the zkVM execution mode a receipt's claim
// terminated in.
type SystemExitCode uint32

const (
	// Halted is normal termination: the guest program completed.
	Halted SystemExitCode = 0
	// Paused is used for continuations and multi-segment proofs.
	Paused SystemExitCode = 1
	// SystemSplit indicates execution was split for parallel proving.
	SystemSplit SystemExitCode = 2
)

// ExitCode is the termination status of a guest program execution. Only
// the 4th byte of User contributes to the claim digest (see Claim.Digest);
// the rest must be zero for standard receipts.
type ExitCode struct {
	System SystemExitCode
	User   [8]byte
}

// Output is the public result of a guest program execution: the journal
// (public outputs) and any assumptions (dependencies on other receipts).
type Output struct {
	JournalDigest     Digest32
	AssumptionsDigest Digest32
}

// Claim is a structured assertion about the execution of a RISC Zero guest
// program: "program PreStateDigest executed successfully producing the
// journal folded into Output". Its Digest is what a Groth16 seal proves
// knowledge of a witness for.
type Claim struct {
	PreStateDigest  Digest32
	PostStateDigest Digest32
	ExitCode        ExitCode
	Input           Digest32
	Output          Output
}

// Receipt is the raw seal bytes plus the claim digest the caller asserts the
// seal attests to. The claim digest is an input contract: an incorrect
// digest fails verification even against an otherwise-valid seal.
type Receipt struct {
	Seal        []byte
	ClaimDigest Digest32
}

// tagOutput is the precomputed SHA-256("risc0.Output") domain-separation
// tag. Baked in rather than recomputed: recomputing it on every call is
// both wasteful and a footgun if the source string is ever touched.
var tagOutput = Digest32{
	0x77, 0xea, 0xfe, 0xb3, 0x66, 0xa7, 0x8b, 0x47, 0x74, 0x7d, 0xe0, 0xd7, 0xbb, 0x17, 0x62,
	0x84, 0x08, 0x5f, 0xf5, 0x56, 0x48, 0x87, 0x00, 0x9a, 0x5b, 0xe6, 0x3d, 0xa3, 0x2d, 0x35,
	0x59, 0xd4,
}

// tagClaim is the precomputed SHA-256("risc0.ReceiptClaim") domain
// separation tag.
var tagClaim = Digest32{
	0xcb, 0x1f, 0xef, 0xcd, 0x1f, 0x2d, 0x9a, 0x64, 0x97, 0x5c, 0xbb, 0xbf, 0x6e, 0x16, 0x1e,
	0x29, 0x14, 0x43, 0x4b, 0x0c, 0xbb, 0x99, 0x60, 0xb8, 0x4d, 0xf5, 0xd7, 0x17, 0xe8, 0x6b,
	0x48, 0xaf,
}

// PostStateHalted is the fixed post-state digest for a successfully
// halted execution.
var PostStateHalted = Digest32{
	0xa3, 0xac, 0xc2, 0x71, 0x17, 0x41, 0x89, 0x96, 0x34, 0x0b, 0x84, 0xe5, 0xa9, 0x0f, 0x3e,
	0xf4, 0xc4, 0x9d, 0x22, 0xc7, 0x9e, 0x44, 0xaa, 0xd8, 0x22, 0xec, 0x9c, 0x31, 0x3e, 0x1e,
	0xb8, 0xe2,
}
