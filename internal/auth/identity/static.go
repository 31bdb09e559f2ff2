package identity

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/talentgate/authcore/internal/auth/domain"
)

// StaticProvider is an in-memory Provider for development and tests.
type StaticProvider struct {
	mu       sync.RWMutex
	accounts map[string]staticAccount
}

type staticAccount struct {
	password string
	mfaCode  string
	identity domain.Identity
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{accounts: make(map[string]staticAccount)}
}

// Add registers an account. An empty mfaCode disables MFA for it.
func (p *StaticProvider) Add(id domain.Identity, password, mfaCode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[id.Email] = staticAccount{
		password: password,
		mfaCode:  mfaCode,
		identity: id,
	}
}

func (p *StaticProvider) Verify(_ context.Context, creds Credentials) (domain.Identity, error) {
	p.mu.RLock()
	acct, ok := p.accounts[creds.Email]
	p.mu.RUnlock()

	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(acct.password), []byte(creds.Password)) != 1 {
		return domain.Identity{}, ErrInvalidCredentials
	}
	if acct.mfaCode != "" && creds.MFACode != acct.mfaCode {
		return domain.Identity{}, ErrMFARequired
	}
	return acct.identity, nil
}
