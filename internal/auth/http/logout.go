package http

import (
	"encoding/json"
	"net/http"

	"github.com/talentgate/authcore/internal/auth/service"
	"github.com/talentgate/authcore/pkg/httpx"
	"github.com/talentgate/authcore/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout. Logout is idempotent: a
// second call with the same token, or an expired or garbage token,
// still succeeds because the session is already closed either way.
type LogoutHandler struct {
	TokenService *service.TokenService
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		errInvalidBody.Write(w)
		return
	}

	if err := h.TokenService.Logout(ctx, req.RefreshToken); err != nil {
		log.Error("logout failed", "err", err)
		errServer.Write(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
