package http

import (
	"net/http"

	"github.com/talentgate/authcore/pkg/httpx"
	"github.com/talentgate/authcore/pkg/jwtx"
)

// JWKSHandler exposes the JSON Web Key Set so resource services can
// verify access tokens without calling back here. Only asymmetric keys
// are published; in HS256 mode the set is empty.
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}
