// Copyright 2025 Certen Protocol
//
// Package router implements C5 of the verifier stack: a selector→verifier
// registry with tombstone semantics, owner-gated mutation, and dispatch to
// whichever backend (Groth16 or mock) is bound to the resolved address.
// The router itself performs no cryptography; it is a thin forwarder.
package router

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/certen/independant-validator/pkg/receipt"
	"github.com/certen/independant-validator/pkg/verifyerr"
)

// ErrNotOwner is returned by every owner-gated router operation when the
// caller does not match the router's current owner. It is not part of the
// stable verifyerr taxonomy: ownership is a router-local access control
// concern, not a verification outcome a downstream caller needs to switch
// on by code.
var ErrNotOwner = errors.New("router: caller is not the owner")

const (
	// verifierExtendAmount is the TTL window a read refreshes a verifier
	// entry to: 90 days. Storage hygiene only, never a correctness
	// mechanism — a stale entry is still served.
	verifierExtendAmount = 90 * 24 * time.Hour
	// verifierTTLThreshold is how close to expiry an entry must be before
	// a read bothers refreshing it.
	verifierTTLThreshold = verifierExtendAmount - 24*time.Hour
)

// VerifierBackend is implemented by every concrete verifier (Groth16,
// mock) the router can dispatch to.
type VerifierBackend interface {
	Verify(seal []byte, imageID, journalDigest receipt.Digest32) error
	VerifyIntegrity(r receipt.Receipt) error
	Selector() [4]byte
}

// entryKind distinguishes the two states a registered selector can be in.
// Absence of an entry (no map key) is a third, implicit state: Unset.
type entryKind int

const (
	entryActive entryKind = iota
	entryTombstone
)

type entry struct {
	kind         entryKind
	address      common.Address
	lastAccessed time.Time
	expiresAt    time.Time
}

// Router dispatches verification calls to the backend registered for a
// seal's selector prefix. It is safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	owner    common.Address
	entries  map[[4]byte]*entry
	backends map[common.Address]VerifierBackend
	log      *log.Logger
}

// New constructs a Router owned by owner. owner is the only address
// permitted to call AddVerifier, RemoveVerifier, and TransferOwnership.
func New(owner common.Address, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		owner:    owner,
		entries:  make(map[[4]byte]*entry),
		backends: make(map[common.Address]VerifierBackend),
		log:      logger,
	}
}

// RegisterBackend binds an address to the concrete verifier implementation
// that serves it. A router entry's address is only ever meaningful once a
// backend has been registered for it; AddVerifier does not require the
// backend to already be registered, mirroring the on-chain router binding
// to a not-yet-deployed contract address.
func (r *Router) RegisterBackend(addr common.Address, backend VerifierBackend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[addr] = backend
}

// Owner returns the router's current owner address.
func (r *Router) Owner() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner
}

// TransferOwnership reassigns the owner. Only the current owner may call
// this.
func (r *Router) TransferOwnership(caller, newOwner common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.owner {
		return ErrNotOwner
	}
	r.owner = newOwner
	return nil
}

// AddVerifier binds selector to addr. Only the owner may call this; the
// entry must currently be unset.
func (r *Router) AddVerifier(caller common.Address, selector [4]byte, addr common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return ErrNotOwner
	}

	if e, ok := r.entries[selector]; ok {
		switch e.kind {
		case entryTombstone:
			return verifyerr.Newf(verifyerr.SelectorRemoved, "selector %x was permanently removed", selector)
		case entryActive:
			return verifyerr.Newf(verifyerr.SelectorInUse, "selector %x already bound", selector)
		}
	}

	now := time.Now()
	r.entries[selector] = &entry{
		kind:         entryActive,
		address:      addr,
		lastAccessed: now,
		expiresAt:    now.Add(verifierExtendAmount),
	}
	r.log.Printf("[router] add_verifier selector=%x address=%s", selector, addr)
	return nil
}

// RemoveVerifier tombstones selector. Only the owner may call this.
// Removing an already-tombstoned selector is a no-op success, matching the
// on-chain router (it simply re-writes Tombstone over Tombstone).
func (r *Router) RemoveVerifier(caller common.Address, selector [4]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return ErrNotOwner
	}

	e, ok := r.entries[selector]
	if !ok {
		return verifyerr.Newf(verifyerr.SelectorUnknown, "selector %x was never registered", selector)
	}

	e.kind = entryTombstone
	e.address = common.Address{}
	r.log.Printf("[router] remove_verifier selector=%x", selector)
	return nil
}

// Entry is the externally observable state of a registered selector.
type Entry struct {
	Active    bool
	Tombstone bool
	Address   common.Address
}

// Verifiers returns the raw entry for selector, or (Entry{}, false) if the
// selector has never been set.
func (r *Router) Verifiers(selector [4]byte) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[selector]
	if !ok {
		return Entry{}, false
	}
	r.touch(e)

	switch e.kind {
	case entryTombstone:
		return Entry{Tombstone: true}, true
	default:
		return Entry{Active: true, Address: e.address}, true
	}
}

// touch refreshes an entry's rolling lease once remaining TTL drops below
// the threshold. Must be called with r.mu held.
func (r *Router) touch(e *entry) {
	now := time.Now()
	e.lastAccessed = now
	if e.expiresAt.Sub(now) < verifierTTLThreshold {
		e.expiresAt = now.Add(verifierExtendAmount)
	}
}

// GetVerifierBySelector returns the address bound to selector.
func (r *Router) GetVerifierBySelector(selector [4]byte) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getVerifierLocked(selector)
}

func (r *Router) getVerifierLocked(selector [4]byte) (common.Address, error) {
	e, ok := r.entries[selector]
	if !ok {
		return common.Address{}, verifyerr.Newf(verifyerr.SelectorUnknown, "selector %x is not registered", selector)
	}
	r.touch(e)

	switch e.kind {
	case entryTombstone:
		return common.Address{}, verifyerr.Newf(verifyerr.SelectorRemoved, "selector %x was permanently removed", selector)
	default:
		return e.address, nil
	}
}

// GetVerifierFromSeal extracts the selector prefix from seal and returns
// the address bound to it.
func (r *Router) GetVerifierFromSeal(seal []byte) (common.Address, error) {
	if len(seal) < 4 {
		return common.Address{}, verifyerr.New(verifyerr.MalformedSeal, "seal shorter than the 4-byte selector")
	}
	var selector [4]byte
	copy(selector[:], seal[0:4])
	return r.GetVerifierBySelector(selector)
}

// Verify extracts the selector from seal, resolves its backend, and
// forwards the call. Downstream errors propagate unchanged.
func (r *Router) Verify(seal []byte, imageID, journalDigest receipt.Digest32) error {
	if len(seal) < 4 {
		return verifyerr.New(verifyerr.MalformedSeal, "seal shorter than the 4-byte selector")
	}
	var selector [4]byte
	copy(selector[:], seal[0:4])

	backend, err := r.resolveBackend(selector)
	if err != nil {
		return err
	}
	return backend.Verify(seal, imageID, journalDigest)
}

// VerifyIntegrity extracts the selector from r.Seal, resolves its backend,
// and forwards the call.
func (r *Router) VerifyIntegrity(rcpt receipt.Receipt) error {
	if len(rcpt.Seal) < 4 {
		return verifyerr.New(verifyerr.MalformedSeal, "seal shorter than the 4-byte selector")
	}
	var selector [4]byte
	copy(selector[:], rcpt.Seal[0:4])

	backend, err := r.resolveBackend(selector)
	if err != nil {
		return err
	}
	return backend.VerifyIntegrity(rcpt)
}

func (r *Router) resolveBackend(selector [4]byte) (VerifierBackend, error) {
	r.mu.Lock()
	addr, err := r.getVerifierLocked(selector)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	backend, ok := r.backends[addr]
	r.mu.Unlock()

	if !ok {
		return nil, verifyerr.Newf(verifyerr.SelectorUnknown, "no backend registered for address %s", addr)
	}
	return backend, nil
}

// Sweep evicts entries whose lease has expired as of now. This is
// best-effort storage hygiene: an entry being swept carries no
// correctness meaning, and nothing in this package calls Sweep
// automatically. An evicted Active entry reverts to Unset (not
// Tombstone) — eviction is not the same operation as RemoveVerifier.
func (r *Router) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for selector, e := range r.entries {
		if e.kind == entryActive && now.After(e.expiresAt) {
			delete(r.entries, selector)
			evicted++
		}
	}
	if evicted > 0 {
		r.log.Printf("[router] swept %d expired entries", evicted)
	}
	return evicted
}
