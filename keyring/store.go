// Package keyring stores the chat provider credential in the operating
// system keychain, with an encrypted file fallback for headless use.
package keyring

import (
	"errors"
	"io/fs"

	"github.com/99designs/keyring"

	"github.com/patternpress/patternpress"
)

const (
	serviceName = "patternpress"

	// credentialKey is the single named key the credential lives under.
	credentialKey = "chat-api-key"
)

// Ensure Store implements patternpress.CredentialStore at compile time.
var _ patternpress.CredentialStore = (*Store)(nil)

// Store persists the chat credential. The credential is only ever
// written by explicit save and clear actions and is never sent anywhere
// except the chat provider.
type Store struct {
	ring keyring.Keyring
}

// NewStore opens the default keychain for the current platform.
func NewStore() (*Store, error) {
	return NewStoreWithConfig(keyring.Config{
		ServiceName:      serviceName,
		FileDir:          "~/.patternpress/keyring",
		FilePasswordFunc: keyring.FixedStringPrompt(""),
	})
}

// NewStoreWithConfig opens a keychain with an explicit configuration.
// Tests use this with the file backend and a temporary directory.
func NewStoreWithConfig(cfg keyring.Config) (*Store, error) {
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, patternpress.Errorf(patternpress.EINTERNAL, "open keyring: %v", err)
	}
	return &Store{ring: ring}, nil
}

// Get returns the saved credential, or ENOTFOUND if none has been saved.
func (s *Store) Get() (string, error) {
	item, err := s.ring.Get(credentialKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", patternpress.Errorf(patternpress.ENOTFOUND, "no credential saved")
	}
	if err != nil {
		return "", patternpress.Errorf(patternpress.EINTERNAL, "read credential: %v", err)
	}
	return string(item.Data), nil
}

// Set saves the credential, replacing any previous value.
func (s *Store) Set(credential string) error {
	if credential == "" {
		return patternpress.Errorf(patternpress.EINVALID, "credential required")
	}
	if err := s.ring.Set(keyring.Item{Key: credentialKey, Data: []byte(credential)}); err != nil {
		return patternpress.Errorf(patternpress.EINTERNAL, "save credential: %v", err)
	}
	return nil
}

// Delete removes the credential. Deleting an absent credential is not an
// error.
func (s *Store) Delete() error {
	err := s.ring.Remove(credentialKey)
	// The file backend reports an absent key as a path error rather
	// than ErrKeyNotFound.
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return patternpress.Errorf(patternpress.EINTERNAL, "delete credential: %v", err)
	}
	return nil
}
