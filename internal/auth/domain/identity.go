package domain

// Identity is what the identity provider returns for verified
// credentials. It carries everything the issuer needs to mint a session.
type Identity struct {
	Subject string // stable subject id, becomes the "sub" claim
	Email   string
	Name    string
	Role    Role
}
