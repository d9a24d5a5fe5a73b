package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name profile passwords are filed under in
// the system keyring.
const keyringService = "godbc"

// SetPassword stores a profile's password in the system keyring.
func SetPassword(profileName, password string) error {
	if err := keyring.Set(keyringService, profileName, password); err != nil {
		return fmt.Errorf("store password for %q: %w", profileName, err)
	}
	return nil
}

// Password fetches a profile's password from the system keyring. A missing
// entry is not an error; it returns an empty password.
func Password(profileName string) (string, error) {
	pw, err := keyring.Get(keyringService, profileName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read password for %q: %w", profileName, err)
	}
	return pw, nil
}

// DeletePassword removes a profile's password from the system keyring.
func DeletePassword(profileName string) error {
	if err := keyring.Delete(keyringService, profileName); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete password for %q: %w", profileName, err)
	}
	return nil
}
