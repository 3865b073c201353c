package security

import (
	"CommunityDirectory/internal/core/ports"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidReference is returned for malformed, tampered or stale references.
var ErrInvalidReference = errors.New("invalid or expired reference")

// reference payload: 16-byte uuid followed by big-endian unix seconds
const refPayloadLen = 16 + 8

// aesService implements the SecurityPort interface using AES-GCM.
type aesService struct {
	gcm cipher.AEAD
	log zerolog.Logger // Store the contextual logger
}

// NewAESService creates a new security service from a 16 or 32 byte key.
func NewAESService(encryptionKey []byte, baseLogger *zerolog.Logger) (ports.SecurityPort, error) {
	if len(encryptionKey) != 16 && len(encryptionKey) != 32 {
		return nil, errors.New("encryptionKey must be 16 or 32 bytes")
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("could not create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	log := baseLogger.With().Str("component", "security_service").Logger()
	log.Info().Msg("Security service initialized")

	return &aesService{gcm: gcm, log: log}, nil
}

// Encrypt encrypts data using AES-GCM.
func (s *aesService) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		s.log.Error().Err(err).Msg("Failed to generate nonce")
		return nil, fmt.Errorf("could not generate nonce: %w", err)
	}

	ciphertext := s.gcm.Seal(nonce, nonce, plaintext, nil)
	return ciphertext, nil
}

// Decrypt decrypts data using AES-GCM.
func (s *aesService) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := s.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext is too short")
	}

	nonce, actualCiphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := s.gcm.Open(nil, nonce, actualCiphertext, nil)
	if err != nil {
		// Log a warning: this can happen if data is tampered with
		s.log.Warn().Err(err).Msg("Failed to decrypt ciphertext (tampered or corrupt?)")
		return nil, fmt.Errorf("could not decrypt: %w", err)
	}

	return plaintext, nil
}

// SealReference encrypts the id together with the issue time.
func (s *aesService) SealReference(id uuid.UUID, now time.Time) (string, error) {
	payload := make([]byte, refPayloadLen)
	copy(payload, id[:])
	binary.BigEndian.PutUint64(payload[16:], uint64(now.Unix()))

	sealed, err := s.Encrypt(payload)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// OpenReference reverses SealReference and enforces maxAge.
func (s *aesService) OpenReference(ref string, maxAge time.Duration, now time.Time) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil {
		return uuid.Nil, ErrInvalidReference
	}
	payload, err := s.Decrypt(raw)
	if err != nil || len(payload) != refPayloadLen {
		return uuid.Nil, ErrInvalidReference
	}

	id, err := uuid.FromBytes(payload[:16])
	if err != nil {
		return uuid.Nil, ErrInvalidReference
	}
	issued := time.Unix(int64(binary.BigEndian.Uint64(payload[16:])), 0)
	if now.Sub(issued) > maxAge || issued.After(now.Add(time.Minute)) {
		return uuid.Nil, ErrInvalidReference
	}
	return id, nil
}
