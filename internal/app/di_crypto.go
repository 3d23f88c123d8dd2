package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/gatekeeper/internal/crypto/service"
)

// KMSService returns the KMS service used to unwrap KMS-protected key material.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// EncryptionKey returns the process-wide content key. It is zeroed by Shutdown.
func (c *Container) EncryptionKey() ([]byte, error) {
	var err error
	c.encryptionKeyInit.Do(func() {
		c.encryptionKey, err = c.initEncryptionKey()
		if err != nil {
			c.initErrors["encryptionKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionKey"]; exists {
		return nil, storedErr
	}
	return c.encryptionKey, nil
}

// Cipher returns the secret cipher sealing new values with ENCRYPTION_ALGORITHM.
func (c *Container) Cipher() (cryptoService.Cipher, error) {
	var err error
	c.cipherInit.Do(func() {
		c.cipher, err = c.initCipher()
		if err != nil {
			c.initErrors["cipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

// initEncryptionKey loads the content key inline, from the key file, or generates the key
// file on first start.
func (c *Container) initEncryptionKey() ([]byte, error) {
	key, err := cryptoService.LoadKey(context.Background(), c.KMSService(), cryptoService.KeySource{
		Inline:    c.config.EncryptionKey,
		File:      c.config.EncryptionKeyFile,
		KMSKeyURI: c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load encryption key: %w", err)
	}
	return key, nil
}

// initCipher creates the envelope cipher from the content key.
func (c *Container) initCipher() (cryptoService.Cipher, error) {
	key, err := c.EncryptionKey()
	if err != nil {
		return nil, err
	}

	cipher, err := cryptoService.NewEnvelopeCipher(
		cryptoService.NewAEADManager(),
		key,
		cryptoDomain.Algorithm(c.config.EncryptionAlgorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher, nil
}
