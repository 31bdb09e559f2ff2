package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrMFARequired        = errors.New("mfa_required")

	// ErrTokenInvalid covers malformed, forged and unknown tokens; the
	// caller learns nothing beyond "invalid".
	ErrTokenInvalid = errors.New("invalid_token")

	ErrTokenExpired = errors.New("token_expired")

	// ErrTokenRevoked means the token's family was revoked earlier, by
	// logout, admin action or reuse detection.
	ErrTokenRevoked = errors.New("token_revoked")

	// ErrReuseDetected means a stale-generation refresh token was
	// presented. The whole family has been revoked in response.
	ErrReuseDetected = errors.New("token_reuse_detected")
)
