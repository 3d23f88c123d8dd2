// Package domain defines the algorithms, envelope layout and errors of the secret cipher.
package domain

// Algorithm represents the AEAD algorithm used to seal a value.
//
// Both algorithms use a 256-bit key, a 12-byte random nonce and a 16-byte tag.
// AESGCM is the default; ChaCha20 suits hosts without AES-NI.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the required length in bytes of the content encryption key.
const KeySize = 32

// EnvelopeVersion is the first byte of every ciphertext envelope.
const EnvelopeVersion byte = 1

// Algorithm identifiers stored in the second envelope byte.
const (
	algorithmIDAESGCM   byte = 1
	algorithmIDChaCha20 byte = 2
)

// ID returns the envelope identifier of the algorithm, or 0 if unknown.
func (a Algorithm) ID() byte {
	switch a {
	case AESGCM:
		return algorithmIDAESGCM
	case ChaCha20:
		return algorithmIDChaCha20
	default:
		return 0
	}
}

// AlgorithmFromID resolves an envelope identifier back to its algorithm.
func AlgorithmFromID(id byte) (Algorithm, bool) {
	switch id {
	case algorithmIDAESGCM:
		return AESGCM, true
	case algorithmIDChaCha20:
		return ChaCha20, true
	default:
		return "", false
	}
}
