package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/gatekeeper/internal/crypto/service"
	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
)

var (
	writePermissions = []authDomain.Permission{authDomain.PermissionManageSecrets}
	readPermissions  = []authDomain.Permission{
		authDomain.PermissionReadSecrets,
		authDomain.PermissionManageSecrets,
	}
)

// secretUseCase implements the SecretUseCase interface.
type secretUseCase struct {
	txManager  database.TxManager
	secretRepo SecretRepository
	cipher     cryptoService.Cipher
	now        func() time.Time
}

// NewSecretUseCase creates a new SecretUseCase. now is the clock for timestamps; nil
// selects time.Now.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	cipher cryptoService.Cipher,
	now func() time.Time,
) SecretUseCase {
	if now == nil {
		now = time.Now
	}
	return &secretUseCase{
		txManager:  txManager,
		secretRepo: secretRepo,
		cipher:     cipher,
		now:        now,
	}
}

// Create encrypts the value and inserts the secret in a single statement; name uniqueness
// is enforced by the storage unique index.
func (s *secretUseCase) Create(
	ctx context.Context,
	actor *authDomain.Claims,
	input *secretsDomain.CreateSecretInput,
) (*secretsDomain.Secret, error) {
	if err := authDomain.RequirePermission(actor, writePermissions...); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, secretsDomain.ErrSecretNameRequired
	}
	if len(input.Value) == 0 {
		return nil, secretsDomain.ErrSecretValueRequired
	}

	encrypted, err := s.cipher.Encrypt(input.Value)
	cryptoDomain.Zero(input.Value)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate secret id")
	}

	now := s.now().UTC()
	secret := &secretsDomain.Secret{
		ID:             id,
		Name:           name,
		EncryptedValue: encrypted,
		Description:    input.Description,
		CreatedBy:      actor.Subject,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.secretRepo.Create(ctx, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// Get returns the secret view, decrypting the value on request.
func (s *secretUseCase) Get(
	ctx context.Context,
	actor *authDomain.Claims,
	name string,
	decrypt bool,
) (*secretsDomain.SecretView, error) {
	if err := authDomain.RequirePermission(actor, readPermissions...); err != nil {
		return nil, err
	}

	secret, err := s.secretRepo.GetByName(ctx, name)
	if err != nil {
		if apperrors.Is(err, secretsDomain.ErrSecretNotFound) {
			return nil, nil
		}
		return nil, err
	}

	view := secretsDomain.NewSecretView(secret)
	if !decrypt {
		return view, nil
	}

	plaintext, err := s.cipher.Decrypt(secret.EncryptedValue)
	if err != nil {
		return nil, apperrors.Wrapf(secretsDomain.ErrSecretDecryption, "%s", name)
	}
	view.Value = plaintext
	return view, nil
}

// Rotate re-encrypts a new value for an existing secret under a row lock so concurrent
// rotations of the same name serialize.
func (s *secretUseCase) Rotate(
	ctx context.Context,
	actor *authDomain.Claims,
	name string,
	newValue []byte,
) (*secretsDomain.Secret, error) {
	if err := authDomain.RequirePermission(actor, writePermissions...); err != nil {
		return nil, err
	}
	if len(newValue) == 0 {
		return nil, secretsDomain.ErrSecretValueRequired
	}

	encrypted, err := s.cipher.Encrypt(newValue)
	cryptoDomain.Zero(newValue)
	if err != nil {
		return nil, err
	}

	var rotated *secretsDomain.Secret
	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		secret, err := s.secretRepo.GetByNameForUpdate(txCtx, name)
		if err != nil {
			return err
		}

		updatedAt := s.now().UTC()
		if updatedAt.Before(secret.UpdatedAt) {
			updatedAt = secret.UpdatedAt
		}

		secret.EncryptedValue = encrypted
		secret.UpdatedAt = updatedAt

		if err := s.secretRepo.UpdateValue(txCtx, secret); err != nil {
			return err
		}
		rotated = secret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rotated, nil
}

// List returns secret metadata without values.
func (s *secretUseCase) List(
	ctx context.Context,
	actor *authDomain.Claims,
	offset, limit int,
) ([]*secretsDomain.SecretView, error) {
	if err := authDomain.RequirePermission(actor, readPermissions...); err != nil {
		return nil, err
	}

	secrets, err := s.secretRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	views := make([]*secretsDomain.SecretView, 0, len(secrets))
	for _, secret := range secrets {
		views = append(views, secretsDomain.NewSecretView(secret))
	}
	return views, nil
}
