// Copyright 2025 Certen Protocol
//
// HTTP handlers for the verifier service: registry management on the
// router, receipt verification, and the LaneRacer game adapter's
// session/score endpoints.
package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/certen/independant-validator/pkg/laneracer"
	"github.com/certen/independant-validator/pkg/receipt"
	"github.com/certen/independant-validator/pkg/router"
	"github.com/certen/independant-validator/pkg/verifyerr"
)

// Handlers provides HTTP handlers for the verifier and LaneRacer APIs.
type Handlers struct {
	router   *router.Router
	laneRace *laneracer.Adapter
	metrics  *Metrics
	logger   *log.Logger
}

// NewHandlers constructs Handlers backed by router and adapter.
func NewHandlers(r *router.Router, adapter *laneracer.Adapter, metrics *Metrics, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[VerifierAPI] ", log.LstdFlags)
	}
	return &Handlers{router: r, laneRace: adapter, metrics: metrics, logger: logger}
}

// ============================================================================
// VERIFICATION ENDPOINTS
// ============================================================================

type verifyRequest struct {
	Seal          string `json:"seal"`           // hex-encoded
	ImageID       string `json:"image_id"`       // hex-encoded 32 bytes
	JournalDigest string `json:"journal_digest"` // hex-encoded 32 bytes
}

// HandleVerify handles POST /api/v1/verify.
func (h *Handlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	requestID := uuid.New().String()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body")
		return
	}

	seal, err := hex.DecodeString(strings.TrimPrefix(req.Seal, "0x"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SEAL", "Seal must be hex-encoded")
		return
	}
	imageID, err := decodeDigest(req.ImageID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_IMAGE_ID", "image_id must be 32 hex-encoded bytes")
		return
	}
	journalDigest, err := decodeDigest(req.JournalDigest)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JOURNAL_DIGEST", "journal_digest must be 32 hex-encoded bytes")
		return
	}

	verifyErr := h.router.Verify(seal, imageID, journalDigest)
	if h.metrics != nil {
		h.metrics.VerifyAttempts.WithLabelValues(outcomeLabel(verifyErr)).Inc()
	}

	if verifyErr != nil {
		h.logger.Printf("[%s] verify failed: %v", requestID, verifyErr)
		h.writeVerifyErr(w, verifyErr)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"request_id": requestID,
		"valid":      true,
	})
}

// ============================================================================
// REGISTRY ENDPOINTS
// ============================================================================

type registryRequest struct {
	Caller   string `json:"caller"`   // hex address of the router owner
	Selector string `json:"selector"` // hex-encoded 4 bytes
	Address  string `json:"address"`  // hex address the selector should resolve to
}

// HandleAddVerifier handles POST /api/v1/registry/add.
func (h *Handlers) HandleAddVerifier(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req registryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body")
		return
	}
	selector, err := decodeSelector(req.Selector)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SELECTOR", "selector must be 4 hex-encoded bytes")
		return
	}

	err = h.router.AddVerifier(common.HexToAddress(req.Caller), selector, common.HexToAddress(req.Address))
	if err != nil {
		h.writeRouterErr(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RegisteredSelectors.Inc()
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleRemoveVerifier handles POST /api/v1/registry/remove.
func (h *Handlers) HandleRemoveVerifier(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req registryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body")
		return
	}
	selector, err := decodeSelector(req.Selector)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SELECTOR", "selector must be 4 hex-encoded bytes")
		return
	}

	if err := h.router.RemoveVerifier(common.HexToAddress(req.Caller), selector); err != nil {
		h.writeRouterErr(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RegisteredSelectors.Dec()
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleGetVerifier handles GET /api/v1/registry/{selector}.
func (h *Handlers) HandleGetVerifier(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	selectorHex := strings.TrimPrefix(r.URL.Path, "/api/v1/registry/")
	selector, err := decodeSelector(selectorHex)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SELECTOR", "selector must be 4 hex-encoded bytes")
		return
	}

	entry, ok := h.router.Verifiers(selector)
	if !ok {
		h.writeError(w, http.StatusNotFound, "SELECTOR_UNKNOWN", "selector has never been registered")
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// ============================================================================
// LANERACER ENDPOINTS
// ============================================================================

type startGameRequest struct {
	SessionID uint32 `json:"session_id"`
	Player    string `json:"player"` // hex address
}

// HandleStartGame handles POST /api/v1/lanerace/start.
func (h *Handlers) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body")
		return
	}

	if err := h.laneRace.StartGame(req.SessionID, common.HexToAddress(req.Player)); err != nil {
		h.writeLaneRacerErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type submitScoreRequest struct {
	SessionID     uint32 `json:"session_id"`
	Player        string `json:"player"`
	Score         uint32 `json:"score"`
	Seal          string `json:"seal"`           // hex-encoded
	JournalDigest string `json:"journal_digest"` // hex-encoded 32 bytes
}

// HandleSubmitScore handles POST /api/v1/lanerace/submit.
func (h *Handlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body")
		return
	}

	seal, err := hex.DecodeString(strings.TrimPrefix(req.Seal, "0x"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SEAL", "Seal must be hex-encoded")
		return
	}
	journalDigest, err := decodeDigest(req.JournalDigest)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JOURNAL_DIGEST", "journal_digest must be 32 hex-encoded bytes")
		return
	}

	proof := laneracer.ZKProof{Seal: seal, JournalDigest: journalDigest}
	submitErr := h.laneRace.SubmitScore(req.SessionID, common.HexToAddress(req.Player), req.Score, proof)
	if h.metrics != nil {
		label := "ok"
		if submitErr != nil {
			label = "error"
		}
		h.metrics.SubmitScoreAttempts.WithLabelValues(label).Inc()
	}
	if submitErr != nil {
		h.writeLaneRacerErr(w, submitErr)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleLeaderboard handles GET /api/v1/lanerace/leaderboard.
func (h *Handlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"leaderboard": h.laneRace.GetLeaderboard()})
}

// ============================================================================
// HELPER METHODS
// ============================================================================

func decodeDigest(s string) (receipt.Digest32, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != 32 {
		return receipt.Digest32{}, errors.New("expected 32 bytes")
	}
	var d receipt.Digest32
	copy(d[:], b)
	return d, nil
}

func decodeSelector(s string) ([4]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != 4 {
		return [4]byte{}, errors.New("expected 4 bytes")
	}
	var sel [4]byte
	copy(sel[:], b)
	return sel, nil
}

// errorCode recovers the stable verifyerr code name from err, if any.
func errorCode(err error) (string, bool) {
	var ve *verifyerr.Error
	if errors.As(err, &ve) {
		return ve.Code.String(), true
	}
	return "", false
}

func (h *Handlers) writeVerifyErr(w http.ResponseWriter, err error) {
	if code, ok := errorCode(err); ok {
		h.writeError(w, http.StatusUnprocessableEntity, code, err.Error())
		return
	}
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func (h *Handlers) writeRouterErr(w http.ResponseWriter, err error) {
	if errors.Is(err, router.ErrNotOwner) {
		h.writeError(w, http.StatusForbidden, "NOT_OWNER", err.Error())
		return
	}
	h.writeVerifyErr(w, err)
}

func (h *Handlers) writeLaneRacerErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, laneracer.ErrSessionExists):
		h.writeError(w, http.StatusConflict, "SESSION_EXISTS", err.Error())
	case errors.Is(err, laneracer.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
	case errors.Is(err, laneracer.ErrNotAuthorized):
		h.writeError(w, http.StatusForbidden, "NOT_AUTHORIZED", err.Error())
	case errors.Is(err, laneracer.ErrInvalidProof):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_PROOF", err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("error encoding response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
