package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

const (
	keychainService = "briefd"
	tokenAccount    = "api_token"
)

// GetAPIToken returns the bearer token protecting the management API. The
// BRIEFD_API_TOKEN environment variable wins; otherwise the token is read
// from the platform secret store, generated on first use.
func GetAPIToken() (string, error) {
	if t := strings.TrimSpace(os.Getenv("BRIEFD_API_TOKEN")); t != "" {
		return t, nil
	}

	if data, err := keychainGet(keychainService, tokenAccount); err == nil {
		if t := strings.TrimSpace(string(data)); t != "" {
			return t, nil
		}
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := keychainSet(keychainService, tokenAccount, token); err != nil {
		return "", fmt.Errorf("storing API token: %w", err)
	}
	return token, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating API token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
