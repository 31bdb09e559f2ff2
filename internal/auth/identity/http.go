package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/talentgate/authcore/internal/auth/domain"
)

// HTTPProvider verifies credentials against a remote identity service
// over JSON. The remote endpoint is POST {base}/v1/identities/verify.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfa_code,omitempty"`
}

type verifyResponse struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

type verifyError struct {
	Error string `json:"error"`
}

func (p *HTTPProvider) Verify(ctx context.Context, creds Credentials) (domain.Identity, error) {
	body, err := json.Marshal(verifyRequest{
		Email:    creds.Email,
		Password: creds.Password,
		MFACode:  creds.MFACode,
	})
	if err != nil {
		return domain.Identity{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/identities/verify", bytes.NewReader(body))
	if err != nil {
		return domain.Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity: verify request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// handled below
	case http.StatusUnauthorized:
		var ve verifyError
		_ = json.NewDecoder(resp.Body).Decode(&ve)
		if ve.Error == "mfa_required" {
			return domain.Identity{}, ErrMFARequired
		}
		return domain.Identity{}, ErrInvalidCredentials
	default:
		return domain.Identity{}, fmt.Errorf("identity: verify returned %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return domain.Identity{}, fmt.Errorf("identity: decode verify response: %w", err)
	}

	role, err := domain.ParseRole(vr.Role)
	if err != nil {
		return domain.Identity{}, err
	}

	return domain.Identity{
		Subject: vr.Subject,
		Email:   vr.Email,
		Name:    vr.Name,
		Role:    role,
	}, nil
}
