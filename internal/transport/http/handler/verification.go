package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lumabank/api/internal/application/verification"
	"github.com/lumabank/api/internal/transport/http/middleware"
)

// VerificationHandler handles email verification code endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// Issue sends a fresh verification code to the caller's email address.
// Like Verify, the response always carries the success flag.
func (h *VerificationHandler) Issue(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Issue(r.Context(), claims.UserID); err != nil {
		writeJSON(w, statusFor(err), VerifyEnvelope{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Success: true})
}

// Verify checks the submitted code. The response always carries the
// success flag; failures add the error text alongside the mapped status.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Verify(r.Context(), claims.UserID, req.Code); err != nil {
		writeJSON(w, statusFor(err), VerifyEnvelope{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Success: true})
}
