package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/veristream/veristream/internal/model"
	"github.com/veristream/veristream/internal/notify"
	"github.com/veristream/veristream/internal/pipeline"
	"github.com/veristream/veristream/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProcessor returns a canned outcome or error
type stubProcessor struct {
	outcome *pipeline.Outcome
	err     error
}

func (s *stubProcessor) Process(ctx context.Context, claimID uint64) (*pipeline.Outcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.outcome
	out.ClaimID = claimID
	return &out, nil
}

// recordingPublisher records published claim ids
type recordingPublisher struct {
	claims []uint64
}

func (r *recordingPublisher) ClaimCreated(ctx context.Context, claimID uint64) error {
	r.claims = append(r.claims, claimID)
	return nil
}

func newTestServer(st store.Store, proc Processor, pub notify.Publisher) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, proc, pub, logger).Router([]string{"http://localhost:3000"})
}

func TestCreateClaim(t *testing.T) {
	st := store.NewMemory()
	pub := &recordingPublisher{}
	router := newTestServer(st, &stubProcessor{}, pub)

	body := bytes.NewBufferString(`{"content":"The earth is round"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/claims", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var claim model.Claim
	if err := json.Unmarshal(w.Body.Bytes(), &claim); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if claim.ID == 0 {
		t.Error("Expected a persisted id")
	}
	if claim.Content != "The earth is round" {
		t.Errorf("Content = %q", claim.Content)
	}
	if claim.Status != model.StatusPending {
		t.Errorf("Status = %s, want pending", claim.Status)
	}

	if len(pub.claims) != 1 || pub.claims[0] != claim.ID {
		t.Errorf("Expected creation announced for claim %d, got %v", claim.ID, pub.claims)
	}
}

func TestCreateClaim_MissingContent(t *testing.T) {
	router := newTestServer(store.NewMemory(), &stubProcessor{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/claims", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing content, got %d", w.Code)
	}
}

func TestListClaims(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	for i := 0; i < 3; i++ {
		if _, err := st.CreateClaim(ctx, fmt.Sprintf("claim %d", i)); err != nil {
			t.Fatalf("CreateClaim: %v", err)
		}
	}
	router := newTestServer(st, &stubProcessor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/claims?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var claims []model.Claim
	if err := json.Unmarshal(w.Body.Bytes(), &claims); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if len(claims) != 2 {
		t.Errorf("Expected 2 claims with limit=2, got %d", len(claims))
	}
}

func TestListClaims_InvalidLimit(t *testing.T) {
	router := newTestServer(store.NewMemory(), &stubProcessor{}, nil)

	for _, limit := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/claims?limit="+limit, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", limit, w.Code)
		}
	}
}

func TestGetClaim(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	created, _ := st.CreateClaim(ctx, "a claim")
	if err := st.ApplyVerification(ctx, created.ID, 85, model.StatusVerified, []model.FactCheckEntry{
		{VerificationSource: "ClaimBuster", Explanation: "score", ConfidenceScore: 85},
	}); err != nil {
		t.Fatalf("ApplyVerification: %v", err)
	}
	router := newTestServer(st, &stubProcessor{}, nil)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/claims/%d", created.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var claim model.Claim
	if err := json.Unmarshal(w.Body.Bytes(), &claim); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if len(claim.FactChecks) != 1 {
		t.Errorf("Expected fact-check entries included, got %d", len(claim.FactChecks))
	}
}

func TestGetClaim_NotFound(t *testing.T) {
	router := newTestServer(store.NewMemory(), &stubProcessor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/claims/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestGetClaim_InvalidID(t *testing.T) {
	router := newTestServer(store.NewMemory(), &stubProcessor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/claims/not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestProcessClaim(t *testing.T) {
	proc := &stubProcessor{outcome: &pipeline.Outcome{Confidence: 85, Status: model.StatusVerified}}
	router := newTestServer(store.NewMemory(), proc, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/claims/1/process", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success    bool         `json:"success"`
		Confidence int          `json:"confidence"`
		Status     model.Status `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if !resp.Success || resp.Confidence != 85 || resp.Status != model.StatusVerified {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestProcessClaim_Failure(t *testing.T) {
	proc := &stubProcessor{err: &pipeline.Error{Kind: pipeline.FailureNotFound, Err: errors.New("claim gone")}}
	router := newTestServer(store.NewMemory(), proc, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/claims/1/process", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expected an error message in the body")
	}
}
