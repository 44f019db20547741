package email

import (
	"bytes"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	mail "gopkg.in/mail.v2"

	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/utils"
)

// composeMessage builds the MIME message for one recipient: plain text body
// plus one attachment per report path, named after the path's base name.
// Report files are read on every call.
func (d *emailDispatcher) composeMessage(params *models.ParameterSet, recipient string) ([]byte, string, error) {
	messageID := utils.GenerateMessageID(utils.ExtractDomainFromEmail(params.Sender.Username), recipient)

	message := mail.NewMessage()
	message.SetHeader("From", params.Sender.Username)
	message.SetHeader("To", recipient)
	message.SetHeader("Subject", params.Subject)
	message.SetHeader("Message-ID", messageID)
	message.SetDateHeader("Date", d.now())
	message.SetBody("text/plain", params.Body)

	for _, path := range params.ReportPaths {
		content, err := afero.ReadFile(d.fs, path)
		if err != nil {
			return nil, "", errors.Wrapf(mailerrors.ErrAttachmentIOFailure, "%s: %v", path, err)
		}
		message.AttachReader(filepath.Base(path), bytes.NewReader(content))
	}

	buffer := bytes.NewBuffer(nil)
	if _, err := message.WriteTo(buffer); err != nil {
		return nil, "", errors.Wrap(err, "failed to encode message")
	}
	return buffer.Bytes(), messageID, nil
}
