package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talentgate/authcore/pkg/jwtx"
)

// initSigning builds the signer, verifier and public key set for the
// configured algorithm.
//
//   - EdDSA: an ephemeral Ed25519 keypair is generated on startup and
//     published via JWKS. Restarting the service invalidates all
//     outstanding tokens.
//   - HS256: a shared secret from the environment. Nothing is published;
//     only services holding the secret can verify.
func initSigning(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, *jwtx.KeySet, error) {
	keys := jwtx.NewKeySet()

	switch cfg.SigningAlg {
	case jwtx.AlgorithmEdDSA:
		pemKey, err := jwtx.GenerateEd25519Key()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("generate signing key: %w", err)
		}

		signer, err := jwtx.NewSignerEdDSA(cfg.SigningKeyID, pemKey)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init EdDSA signer: %w", err)
		}
		if err := keys.AddSigner(signer); err != nil {
			return nil, nil, nil, err
		}

		logger.Info("ephemeral signing key generated",
			"alg", cfg.SigningAlg, "kid", cfg.SigningKeyID)

		return signer, jwtx.NewVerifierEdDSA(keys, cfg.Issuer), keys, nil

	case jwtx.AlgorithmHS256:
		if cfg.SigningSecret == "" {
			return nil, nil, nil, errors.New("AUTH_SIGNING_SECRET is required for HS256")
		}

		signer, err := jwtx.NewSignerHS256(cfg.SigningKeyID, []byte(cfg.SigningSecret))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init HS256 signer: %w", err)
		}

		logger.Info("shared-secret signing configured", "alg", cfg.SigningAlg)

		return signer, jwtx.NewVerifierHS256([]byte(cfg.SigningSecret), cfg.Issuer), keys, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported signing algorithm %q", cfg.SigningAlg)
	}
}
