package secrets

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	mailerrors "github.com/customeros/reportmailer/internal/errors"
)

func withKeyring(t *testing.T, get func(service, user string) (string, error)) {
	t.Helper()
	original := keyringGet
	keyringGet = get
	t.Cleanup(func() { keyringGet = original })
}

func TestSecretStore_PasswordFromEnv(t *testing.T) {
	withKeyring(t, func(service, user string) (string, error) {
		t.Fatal("keyring must not be queried")
		return "", nil
	})
	store := NewSecretStore(StoreConfig{Username: "me@outlook.com", Password: "secret", KeyringService: "reportmailer"})

	credentials, err := store.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@outlook.com", credentials.Username)
	assert.Equal(t, "secret", credentials.Password)
}

func TestSecretStore_PasswordFromKeyring(t *testing.T) {
	withKeyring(t, func(service, user string) (string, error) {
		assert.Equal(t, "reportmailer", service)
		assert.Equal(t, "me@outlook.com", user)
		return "from-keyring", nil
	})
	store := NewSecretStore(StoreConfig{Username: "me@outlook.com", KeyringService: "reportmailer"})

	credentials, err := store.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", credentials.Password)
	assert.True(t, credentials.IsComplete())
}

func TestSecretStore_Missing(t *testing.T) {
	withKeyring(t, func(service, user string) (string, error) {
		return "", keyring.ErrNotFound
	})

	tests := []struct {
		name string
		cfg  StoreConfig
	}{
		{"no username", StoreConfig{Password: "secret"}},
		{"no password and keyring disabled", StoreConfig{Username: "me@outlook.com"}},
		{"keyring entry not found", StoreConfig{Username: "me@outlook.com", KeyringService: "reportmailer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSecretStore(tt.cfg).Credentials(context.Background())
			assert.True(t, errors.Is(err, mailerrors.ErrMissingCredentials))
		})
	}
}

func TestSavePassword(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, SavePassword("reportmailer", "me@outlook.com", "secret"))
	stored, err := keyring.Get("reportmailer", "me@outlook.com")
	require.NoError(t, err)
	assert.Equal(t, "secret", stored)

	assert.True(t, errors.Is(SavePassword("reportmailer", "me@outlook.com", ""), mailerrors.ErrMissingCredentials))
}
