// Copyright 2025 Certen Protocol

package receipt

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestOutputDigestDeterministic(t *testing.T) {
	out := Output{
		JournalDigest:     sha256.Sum256([]byte("journal")),
		AssumptionsDigest: Digest32{},
	}

	d1 := out.Digest()
	d2 := out.Digest()
	if d1 != d2 {
		t.Fatalf("Output.Digest is not deterministic: %x != %x", d1, d2)
	}
}

func TestOutputDigestChangesWithJournal(t *testing.T) {
	a := Output{JournalDigest: sha256.Sum256([]byte("a"))}
	b := Output{JournalDigest: sha256.Sum256([]byte("b"))}

	if a.Digest() == b.Digest() {
		t.Fatal("different journal digests produced the same Output digest")
	}
}

func TestClaimDigestHaltedDefaults(t *testing.T) {
	imageID := sha256.Sum256([]byte("image"))
	journal := sha256.Sum256([]byte("journal"))

	claim := NewClaim(imageID, journal)

	if claim.PostStateDigest != PostStateHalted {
		t.Fatalf("NewClaim did not set the halted post-state digest")
	}
	if claim.ExitCode.System != Halted {
		t.Fatalf("NewClaim did not set Halted exit code, got %v", claim.ExitCode.System)
	}
	if claim.Input != (Digest32{}) {
		t.Fatalf("NewClaim did not zero the input digest")
	}
	if claim.Output.AssumptionsDigest != (Digest32{}) {
		t.Fatalf("NewClaim did not zero the assumptions digest")
	}
}

func TestClaimDigestPureFunction(t *testing.T) {
	imageID := sha256.Sum256([]byte("image"))
	journal := sha256.Sum256([]byte("journal"))

	claim := NewClaim(imageID, journal)

	d1 := claim.Digest()
	d2 := claim.Digest()
	if d1 != d2 {
		t.Fatal("Claim.Digest is not idempotent")
	}
}

// TestClaimDigestUserExitCodeOnlyByte3 pins down the encoding called out in
// the spec: only the 4th byte (index 3) of the 8-byte user exit code
// contributes to the digest, and it is placed at the front of a 4-byte
// [value,0,0,0] group — the same transform applied to the system code.
func TestClaimDigestUserExitCodeOnlyByte3(t *testing.T) {
	imageID := sha256.Sum256([]byte("image"))
	journal := sha256.Sum256([]byte("journal"))

	base := NewClaim(imageID, journal)

	changedByte3 := base
	changedByte3.ExitCode.User[3] = 0x7F
	if base.Digest() == changedByte3.Digest() {
		t.Fatal("changing user exit code byte 3 did not change the claim digest")
	}

	changedOtherByte := base
	changedOtherByte.ExitCode.User[0] = 0x7F
	if base.Digest() != changedOtherByte.Digest() {
		t.Fatal("changing a non-byte-3 user exit code byte changed the claim digest")
	}
}

func TestClaimDigestSensitiveToEveryField(t *testing.T) {
	imageID := sha256.Sum256([]byte("image"))
	journal := sha256.Sum256([]byte("journal"))
	base := NewClaim(imageID, journal)
	baseDigest := base.Digest()

	variants := []Claim{
		func() Claim { c := base; c.PreStateDigest[0] ^= 0xFF; return c }(),
		func() Claim { c := base; c.PostStateDigest[0] ^= 0xFF; return c }(),
		func() Claim { c := base; c.Input[0] ^= 0xFF; return c }(),
		func() Claim { c := base; c.Output.JournalDigest[0] ^= 0xFF; return c }(),
		func() Claim { c := base; c.Output.AssumptionsDigest[0] ^= 0xFF; return c }(),
		func() Claim { c := base; c.ExitCode.System = Paused; return c }(),
	}

	for i, v := range variants {
		if v.Digest() == baseDigest {
			t.Fatalf("variant %d produced the same digest as the base claim", i)
		}
	}
}

func TestTagConstantsAreThirtyTwoBytes(t *testing.T) {
	if len(tagOutput) != 32 || len(tagClaim) != 32 || len(PostStateHalted) != 32 {
		t.Fatal("domain separation tags must be 32 bytes")
	}
	if bytes.Equal(tagOutput[:], tagClaim[:]) {
		t.Fatal("TAG_OUTPUT and TAG_CLAIM must differ")
	}
}
