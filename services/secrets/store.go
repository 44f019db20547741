package secrets

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"

	"github.com/customeros/reportmailer/interfaces"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/tracing"
)

var (
	keyringGet = keyring.Get
	keyringSet = keyring.Set
)

// StoreConfig locates the sender credentials. The password is taken from
// Password when set, otherwise from the OS keyring entry
// (KeyringService, Username).
type StoreConfig struct {
	Username       string
	Password       string
	KeyringService string
}

type secretStore struct {
	cfg StoreConfig
}

func NewSecretStore(cfg StoreConfig) interfaces.SecretStore {
	return &secretStore{cfg: cfg}
}

func (s *secretStore) Credentials(ctx context.Context) (models.Credentials, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "SecretStore.Credentials")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if s.cfg.Username == "" {
		err := errors.Wrap(mailerrors.ErrMissingCredentials, "EMAIL_USERNAME not set")
		tracing.TraceErr(span, err)
		return models.Credentials{}, err
	}

	credentials := models.Credentials{
		Username: s.cfg.Username,
		Password: s.cfg.Password,
	}
	if credentials.Password != "" {
		span.LogKV("source", "env")
		return credentials, nil
	}

	if s.cfg.KeyringService == "" {
		err := errors.Wrap(mailerrors.ErrMissingCredentials, "EMAIL_PASSWORD not set and keyring disabled")
		tracing.TraceErr(span, err)
		return models.Credentials{}, err
	}

	password, err := keyringGet(s.cfg.KeyringService, s.cfg.Username)
	if err != nil {
		err = errors.Wrapf(mailerrors.ErrMissingCredentials, "keyring %s/%s: %v", s.cfg.KeyringService, s.cfg.Username, err)
		tracing.TraceErr(span, err)
		return models.Credentials{}, err
	}
	if password == "" {
		err = errors.Wrapf(mailerrors.ErrMissingCredentials, "keyring %s/%s is empty", s.cfg.KeyringService, s.cfg.Username)
		tracing.TraceErr(span, err)
		return models.Credentials{}, err
	}

	span.LogKV("source", "keyring")
	credentials.Password = password
	return credentials, nil
}

// SavePassword stores the sender password in the OS keyring.
func SavePassword(service, username, password string) error {
	if service == "" || username == "" {
		return errors.Wrap(mailerrors.ErrMissingCredentials, "keyring service and username are required")
	}
	if password == "" {
		return errors.Wrap(mailerrors.ErrMissingCredentials, "empty password")
	}
	return keyringSet(service, username, password)
}
