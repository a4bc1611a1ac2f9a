// Copyright 2025 Certen Protocol

package laneracer

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/certen/independant-validator/pkg/receipt"
)

// Errors mirror the Soroban LaneRacer contract's own error enum: a small,
// fixed set the HTTP layer maps to status codes.
var (
	ErrSessionExists   = errors.New("laneracer: session already exists")
	ErrSessionNotFound = errors.New("laneracer: session not found")
	ErrNotAuthorized   = errors.New("laneracer: player does not own this session")
	ErrInvalidProof    = errors.New("laneracer: proof verification failed")
)

// Verifier is the subset of the router this adapter depends on. Accepting
// an interface rather than *router.Router keeps this package testable
// against a stub and avoids a dependency cycle toward the HTTP server.
type Verifier interface {
	Verify(seal []byte, imageID, journalDigest receipt.Digest32) error
}

// Session is a single player's in-flight or completed game.
type Session struct {
	SessionID uint32
	Player    common.Address
	Score     uint32
	Active    bool
}

// ScoreEntry is one row of the leaderboard.
type ScoreEntry struct {
	Player common.Address
	Score  uint32
}

// ZKProof is the seal and journal digest the player submits alongside a
// score: the proof that the guest program's re-simulation produced that
// score.
type ZKProof struct {
	Seal          []byte
	JournalDigest receipt.Digest32
}

// Adapter mediates between player-facing score submissions and the
// verifier router: it is responsible for session bookkeeping and for
// recording a score only once the attached proof verifies.
type Adapter struct {
	mu          sync.Mutex
	verifier    Verifier
	imageID     receipt.Digest32
	sessions    map[uint32]*Session
	leaderboard []ScoreEntry
}

// New constructs an Adapter that verifies submitted proofs against
// verifier using the fixed guest program imageID.
func New(verifier Verifier, imageID receipt.Digest32) *Adapter {
	return &Adapter{
		verifier: verifier,
		imageID:  imageID,
		sessions: make(map[uint32]*Session),
	}
}

// StartGame registers a new session for player. sessionID must not already
// be in use.
func (a *Adapter) StartGame(sessionID uint32, player common.Address) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.sessions[sessionID]; exists {
		return ErrSessionExists
	}

	a.sessions[sessionID] = &Session{
		SessionID: sessionID,
		Player:    player,
		Active:    true,
	}
	return nil
}

// SubmitScore closes out sessionID for player with score, accepting only
// if proof.Seal verifies against the adapter's image ID and
// proof.JournalDigest. The proof is routed through the verifier rather than
// discarded: a score is recorded if and only if Verify reports success.
// The journal digest is taken as supplied; it is not compared against
// player, sessionID or score.
func (a *Adapter) SubmitScore(sessionID uint32, player common.Address, score uint32, proof ZKProof) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, ok := a.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if session.Player != player {
		return ErrNotAuthorized
	}

	if err := a.verifier.Verify(proof.Seal, a.imageID, proof.JournalDigest); err != nil {
		return errors.Join(ErrInvalidProof, err)
	}

	session.Score = score
	session.Active = false
	a.leaderboard = append(a.leaderboard, ScoreEntry{Player: player, Score: score})
	return nil
}

// GetLeaderboard returns a copy of the recorded scores, in submission
// order.
func (a *Adapter) GetLeaderboard() []ScoreEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ScoreEntry, len(a.leaderboard))
	copy(out, a.leaderboard)
	return out
}

// GetSession returns sessionID's current state, or (Session{}, false) if
// no such session exists.
func (a *Adapter) GetSession(sessionID uint32) (Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, ok := a.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}
