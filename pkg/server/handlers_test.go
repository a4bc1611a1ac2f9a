// Copyright 2025 Certen Protocol

package server

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/certen/independant-validator/pkg/laneracer"
	"github.com/certen/independant-validator/pkg/mockverifier"
	"github.com/certen/independant-validator/pkg/receipt"
	"github.com/certen/independant-validator/pkg/router"
)

var (
	testOwner   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testBackend = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func newTestHandlers(t *testing.T) (*Handlers, *router.Router, *mockverifier.Mock) {
	t.Helper()
	r := router.New(testOwner, nil)
	selector := [4]byte{0xAA, 0xBB, 0xCC, 0xDD}
	mock := mockverifier.New(selector)
	r.RegisterBackend(testBackend, mock)
	if err := r.AddVerifier(testOwner, selector, testBackend); err != nil {
		t.Fatal(err)
	}

	var imageID receipt.Digest32
	imageID[0] = 0x09
	adapter := laneracer.New(mockRouterVerifier{r}, imageID)

	return NewHandlers(r, adapter, nil, nil), r, mock
}

// mockRouterVerifier adapts *router.Router to laneracer.Verifier.
type mockRouterVerifier struct{ r *router.Router }

func (m mockRouterVerifier) Verify(seal []byte, imageID, journalDigest receipt.Digest32) error {
	return m.r.Verify(seal, imageID, journalDigest)
}

func TestHandleVerifyOK(t *testing.T) {
	h, _, mock := newTestHandlers(t)

	var imageID, journal receipt.Digest32
	imageID[0] = 0x09
	journal[0] = 0x02
	rcpt := mock.MockProve(imageID, journal)

	body, _ := json.Marshal(verifyRequest{
		Seal:          hex.EncodeToString(rcpt.Seal),
		ImageID:       hex.EncodeToString(imageID[:]),
		JournalDigest: hex.EncodeToString(journal[:]),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleVerify(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestHandleVerifyBadHex(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	body, _ := json.Marshal(verifyRequest{Seal: "not-hex", ImageID: "00", JournalDigest: "00"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleVerify(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleAddVerifierRequiresOwner(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	body, _ := json.Marshal(registryRequest{
		Caller:   common.HexToAddress("0x9999999999999999999999999999999999999999").Hex(),
		Selector: "01020304",
		Address:  testBackend.Hex(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registry/add", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleAddVerifier(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", w.Code, w.Body.String())
	}
}

func TestStartAndSubmitScoreFlow(t *testing.T) {
	h, _, mock := newTestHandlers(t)
	player := common.HexToAddress("0x3333333333333333333333333333333333333333")

	startBody, _ := json.Marshal(startGameRequest{SessionID: 1, Player: player.Hex()})
	startReq := httptest.NewRequest(http.MethodPost, "/api/v1/lanerace/start", bytes.NewReader(startBody))
	startW := httptest.NewRecorder()
	h.HandleStartGame(startW, startReq)
	if startW.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200: %s", startW.Code, startW.Body.String())
	}

	var imageID, journal receipt.Digest32
	imageID[0] = 0x09
	journal[0] = 0x07
	rcpt := mock.MockProve(imageID, journal)

	submitBody, _ := json.Marshal(submitScoreRequest{
		SessionID:     1,
		Player:        player.Hex(),
		Score:         500,
		Seal:          hex.EncodeToString(rcpt.Seal),
		JournalDigest: hex.EncodeToString(journal[:]),
	})
	submitReq := httptest.NewRequest(http.MethodPost, "/api/v1/lanerace/submit", bytes.NewReader(submitBody))
	submitW := httptest.NewRecorder()
	h.HandleSubmitScore(submitW, submitReq)
	if submitW.Code != http.StatusOK {
		t.Fatalf("submit status = %d, want 200: %s", submitW.Code, submitW.Body.String())
	}

	boardReq := httptest.NewRequest(http.MethodGet, "/api/v1/lanerace/leaderboard", nil)
	boardW := httptest.NewRecorder()
	h.HandleLeaderboard(boardW, boardReq)
	if boardW.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d, want 200", boardW.Code)
	}
}
