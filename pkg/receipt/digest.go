// Copyright 2025 Certen Protocol

package receipt

import "crypto/sha256"

// Digest computes the tagged SHA-256 digest of an Output:
//
//	SHA256(TAG_OUTPUT || journal_digest || assumptions_digest || 0x02 0x00)
//
// The trailing 0x02 0x00 is the RISC Zero tagged-hash length field: two
// fields, little-endian u16.
func (o Output) Digest() Digest32 {
	h := sha256.New()
	h.Write(tagOutput[:])
	h.Write(o.JournalDigest[:])
	h.Write(o.AssumptionsDigest[:])
	h.Write([]byte{0x02, 0x00})
	var out Digest32
	copy(out[:], h.Sum(nil))
	return out
}

// NewClaim builds the standard Claim for a successful halted execution:
// zero input, zero assumptions, PostStateHalted, and exit code
// (Halted, 0). imageID becomes the pre-state digest.
func NewClaim(imageID, journalDigest Digest32) Claim {
	output := Output{
		JournalDigest:     journalDigest,
		AssumptionsDigest: Digest32{},
	}
	return Claim{
		PreStateDigest:  imageID,
		PostStateDigest: PostStateHalted,
		ExitCode:        ExitCode{System: Halted},
		Input:           Digest32{},
		Output:          output,
	}
}

// Digest computes the tagged SHA-256 digest of a Claim:
//
//	SHA256(TAG_CLAIM || input || pre_state_digest || post_state_digest ||
//	       output_digest || [system_code,0,0,0] || [user_byte3,0,0,0] ||
//	       0x04 0x00)
//
// System and user exit codes are encoded as (value << 24).to_be_bytes(),
// which for every defined SystemExitCode variant is simply [value,0,0,0];
// for the user code only byte index 3 (the 4th byte) survives into the
// digest. Changing this encoding — different endianness, more bytes —
// silently breaks verification against every previously issued proof.
func (c Claim) Digest() Digest32 {
	h := sha256.New()
	h.Write(tagClaim[:])
	h.Write(c.Input[:])
	h.Write(c.PreStateDigest[:])
	h.Write(c.PostStateDigest[:])
	outputDigest := c.Output.Digest()
	h.Write(outputDigest[:])
	h.Write([]byte{byte(c.ExitCode.System), 0, 0, 0})
	h.Write([]byte{c.ExitCode.User[3], 0, 0, 0})
	h.Write([]byte{0x04, 0x00})
	var out Digest32
	copy(out[:], h.Sum(nil))
	return out
}
