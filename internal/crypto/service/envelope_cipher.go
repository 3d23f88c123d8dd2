package service

import (
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
)

const envelopeHeaderSize = 2

// EnvelopeCipher implements Cipher. Each ciphertext is the unpadded base64url encoding of
//
//	version(1) | algorithm(1) | nonce | sealed(plaintext) | tag
//
// with the two header bytes bound as associated data. Ciphertexts produced with either
// supported algorithm decrypt as long as the key is unchanged, so the write algorithm can
// be switched without rewriting stored values.
type EnvelopeCipher struct {
	active  cryptoDomain.Algorithm
	ciphers map[cryptoDomain.Algorithm]AEAD
}

// NewEnvelopeCipher builds ciphers for every supported algorithm from key and seals new
// values with active. The caller may zero key once this returns.
func NewEnvelopeCipher(
	manager AEADManager,
	key []byte,
	active cryptoDomain.Algorithm,
) (*EnvelopeCipher, error) {
	if active.ID() == 0 {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	ciphers := make(map[cryptoDomain.Algorithm]AEAD, 2)
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		aead, err := manager.CreateCipher(key, alg)
		if err != nil {
			return nil, err
		}
		ciphers[alg] = aead
	}

	return &EnvelopeCipher{active: active, ciphers: ciphers}, nil
}

// Encrypt seals plaintext with the active algorithm and a fresh nonce.
func (e *EnvelopeCipher) Encrypt(plaintext []byte) (string, error) {
	header := []byte{cryptoDomain.EnvelopeVersion, e.active.ID()}

	sealed, nonce, err := e.ciphers[e.active].Encrypt(plaintext, header)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	buf := make([]byte, 0, envelopeHeaderSize+len(nonce)+len(sealed))
	buf = append(buf, header...)
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Decrypt authenticates and opens an envelope. Any malformed, foreign or tampered input
// yields ErrDecryptionFailed.
func (e *EnvelopeCipher) Decrypt(ciphertext string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil || len(raw) < envelopeHeaderSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	if raw[0] != cryptoDomain.EnvelopeVersion {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	alg, ok := cryptoDomain.AlgorithmFromID(raw[1])
	if !ok {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	aead := e.ciphers[alg]
	body := raw[envelopeHeaderSize:]
	if len(body) < aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := aead.Decrypt(body[aead.NonceSize():], body[:aead.NonceSize()], raw[:envelopeHeaderSize])
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Algorithm returns the algorithm used for new ciphertexts.
func (e *EnvelopeCipher) Algorithm() cryptoDomain.Algorithm {
	return e.active
}
