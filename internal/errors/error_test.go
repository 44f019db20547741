package errors

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientDispatchFailure(t *testing.T) {
	err := RecipientDispatchFailure(errors.Wrap(io.ErrUnexpectedEOF, "SMTP DATA command failed"))

	require.Error(t, err)
	assert.Equal(t, "recipient dispatch failure: SMTP DATA command failed: unexpected EOF", err.Error())
	assert.True(t, errors.Is(err, ErrRecipientDispatchFailure))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, IsConfigurationError(err))
	assert.NoError(t, RecipientDispatchFailure(nil))
}

func TestIsConfigurationError(t *testing.T) {
	assert.True(t, IsConfigurationError(errors.Wrap(ErrMissingReportFile, "report.pdf")))
	assert.False(t, IsConfigurationError(errors.Wrap(ErrAuthenticationFailure, "535")))
}
