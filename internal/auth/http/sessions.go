package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/talentgate/authcore/internal/auth/service"
	"github.com/talentgate/authcore/pkg/httpx"
	"github.com/talentgate/authcore/pkg/slogx"
)

// RevokeSessionsHandler serves POST /v1/admin/sessions/revoke. The
// router gates it behind the revoke:sessions permission.
type RevokeSessionsHandler struct {
	TokenService *service.TokenService
}

type revokeSessionsRequest struct {
	Subject string `json:"subject"`
}

type revokeSessionsResponse struct {
	Subject string `json:"subject"`
	Revoked int64  `json:"revoked"`
}

func (h *RevokeSessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req revokeSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidBody.Write(w)
		return
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		errInvalidBody.Write(w)
		return
	}

	n, err := h.TokenService.RevokeSubjectSessions(ctx, req.Subject)
	if err != nil {
		log.Error("session revocation failed", "err", err, "subject", req.Subject)
		errServer.Write(w)
		return
	}

	log.Info("admin revoked subject sessions",
		"admin", httpx.SubjectFromCtx(ctx),
		"subject", req.Subject,
		"families", n,
	)

	httpx.WriteJSON(w, http.StatusOK, revokeSessionsResponse{
		Subject: req.Subject,
		Revoked: n,
	})
}
