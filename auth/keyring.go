// Package auth provides a high-level API for persisting and retrieving user credentials from the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service = "summarist-cli"
	user    = "identity-token"
)

// SetToken persists the identity provider token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the identity provider token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// DeleteToken removes the identity provider token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(service, user)
}
