package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/talentgate/authcore/internal/auth/service"
	"github.com/talentgate/authcore/pkg/httpx"
	"github.com/talentgate/authcore/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh-token.
type RefreshHandler struct {
	TokenService *service.TokenService
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		errInvalidBody.Write(w)
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReuseDetected):
			errTokenReuse.Write(w)
		case errors.Is(err, service.ErrTokenRevoked):
			errTokenRevoked.Write(w)
		case errors.Is(err, service.ErrTokenExpired):
			errTokenExpired.Write(w)
		case errors.Is(err, service.ErrTokenInvalid):
			errTokenInvalid.Write(w)
		default:
			log.Error("refresh failed", "err", err)
			errServer.Write(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}
