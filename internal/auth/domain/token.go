package domain

import "time"

// TokenPair is what login and refresh return: a short-lived access token
// and the refresh token for the next rotation, both signed JWTs.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string        // typically "Bearer"
	ExpiresIn    time.Duration // access token lifetime
}

// TokenFamily models the stored refresh-token lineage. The store never
// holds token material, only the family head: whichever generation the
// record carries is the single refresh token still allowed to rotate.
type TokenFamily struct {
	ID         string // ULID
	Subject    string
	Role       Role
	Generation int64
	Revoked    bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
