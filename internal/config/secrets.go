package config

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

var errInvalidToken = errors.New("invalid or undecryptable fernet token")

// decryptKeys replaces the fernet-encrypted provider keys with their plaintext.
func (p *ProviderConfig) decryptKeys() error {
	keys, err := fernet.DecodeKeys(p.FernetKey)
	if err != nil {
		return fmt.Errorf("failed to decode FERNET_KEY: %w", err)
	}

	if p.APIKey, err = decrypt(p.APIKey, keys); err != nil {
		return fmt.Errorf("API_KEY: %w", err)
	}
	if p.NewsAPIKey, err = decrypt(p.NewsAPIKey, keys); err != nil {
		return fmt.Errorf("NEWS_API_KEY: %w", err)
	}
	return nil
}

// decrypt returns the plaintext of token. Empty tokens stay empty.
// Tokens never expire: a negative ttl skips the timestamp check.
func decrypt(token string, keys []*fernet.Key) (string, error) {
	if token == "" {
		return "", nil
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), -1, keys)
	if msg == nil {
		return "", errInvalidToken
	}
	return string(msg), nil
}
