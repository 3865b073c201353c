package postgres

import (
	"CommunityDirectory/internal/core/ports"
	"encoding/base64"
	"fmt"
)

// sealText encrypts s for storage. Empty strings are stored as NULL.
func sealText(sec ports.SecurityPort, s string) (*string, error) {
	if s == "" {
		return nil, nil
	}
	encBytes, err := sec.Encrypt([]byte(s))
	if err != nil {
		return nil, err
	}
	encStr := base64.StdEncoding.EncodeToString(encBytes)
	return &encStr, nil
}

// openText reverses sealText.
func openText(sec ports.SecurityPort, enc *string) (string, error) {
	if enc == nil || *enc == "" {
		return "", nil
	}
	decBytes, err := base64.StdEncoding.DecodeString(*enc)
	if err != nil {
		return "", fmt.Errorf("base64-decode: %w", err)
	}
	dec, err := sec.Decrypt(decBytes)
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
