package email

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/reportmailer/internal/enum"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/tracing"
)

// TestLogin opens one authenticated session and closes it.
func (d *emailDispatcher) TestLogin(ctx context.Context, params *models.ParameterSet) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EmailDispatcher.TestLogin")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	server, err := d.serverFor(params)
	if err != nil {
		tracing.TraceErr(span, err)
		d.log.Errorf("Domain of %s is not supported: %v", params.Sender.Username, err)
		return err
	}

	session, err := d.dialer.Dial(ctx, server, params.Sender)
	if err != nil {
		tracing.TraceErr(span, err)
		d.log.Errorf("Authentication Error %s: %v", params.Sender.Username, err)
		return err
	}
	if err = session.Close(); err != nil {
		d.log.Warnf("Closing login session for %s: %v", params.Sender.Username, err)
	}

	d.log.Infof("Login for %s on %s succeeded", params.Sender.Username, server.Address())
	return nil
}

// SendAll sends the report to every recipient in order, one fresh session per
// recipient. A failing recipient is logged and reported in its outcome, the
// remaining recipients are still attempted.
func (d *emailDispatcher) SendAll(ctx context.Context, params *models.ParameterSet) []models.DispatchOutcome {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EmailDispatcher.SendAll")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	outcomes := make([]models.DispatchOutcome, 0, len(params.Recipients))

	server, err := d.serverFor(params)
	if err != nil {
		tracing.TraceErr(span, err)
		for _, recipient := range params.Recipients {
			d.log.Errorf("Error sending email to %s: %v", recipient, err)
			outcomes = append(outcomes, d.failed(recipient, "", err))
		}
		return outcomes
	}

	for _, recipient := range params.Recipients {
		outcomes = append(outcomes, d.sendOne(ctx, params, server, recipient))
	}

	sent, failed := models.CountOutcomes(outcomes)
	span.LogKV("sent", sent, "failed", failed)
	if failed > 0 {
		d.log.Warnf("Report dispatch finished: %d sent, %d failed", sent, failed)
	} else {
		d.log.Infof("Report dispatch finished: %d sent", sent)
	}
	return outcomes
}

func (d *emailDispatcher) sendOne(ctx context.Context, params *models.ParameterSet, server models.ServerSettings, recipient string) (outcome models.DispatchOutcome) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "EmailDispatcher.sendOne")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagRecipient(span, recipient)

	defer func() {
		if r := recover(); r != nil {
			err := errors.Wrapf(mailerrors.ErrRecipientDispatchFailure, "panic: %v", r)
			tracing.TraceErr(span, err)
			d.log.Errorf("Error sending email to %s: %v", recipient, err)
			outcome = d.failed(recipient, outcome.MessageID, err)
		}
	}()

	message, messageID, err := d.composeMessage(params, recipient)
	if err != nil {
		tracing.TraceErr(span, err)
		d.log.Errorf("Error sending email to %s: %v", recipient, err)
		return d.failed(recipient, "", err)
	}
	outcome.MessageID = messageID

	if err = d.deliver(ctx, server, params.Sender, recipient, message); err != nil {
		tracing.TraceErr(span, err)
		d.log.Errorf("Error sending email to %s: %v", recipient, err)
		return d.failed(recipient, messageID, err)
	}

	d.log.Infof("Email sent successfully to %s", recipient)
	return models.DispatchOutcome{
		Recipient:   recipient,
		Status:      enum.DispatchStatusSent,
		MessageID:   messageID,
		AttemptedAt: d.now(),
	}
}

// deliver opens a session, sends one message and closes the session.
func (d *emailDispatcher) deliver(ctx context.Context, server models.ServerSettings, sender models.Credentials, recipient string, message []byte) (err error) {
	session, err := d.dialer.Dial(ctx, server, sender)
	if err != nil {
		if errors.Is(err, mailerrors.ErrAuthenticationFailure) {
			return err
		}
		return mailerrors.RecipientDispatchFailure(err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			d.log.Warnf("Closing session for %s: %v", recipient, closeErr)
		}
	}()

	if err = session.Send(sender.Username, []string{recipient}, message); err != nil {
		return mailerrors.RecipientDispatchFailure(err)
	}
	return nil
}

// serverFor returns the resolved server of params, resolving it from the
// sender address when validation did not.
func (d *emailDispatcher) serverFor(params *models.ParameterSet) (models.ServerSettings, error) {
	if !params.Server.IsZero() {
		return params.Server, nil
	}
	return d.resolver.Resolve(params.Sender.Username)
}

func (d *emailDispatcher) failed(recipient, messageID string, err error) models.DispatchOutcome {
	return models.DispatchOutcome{
		Recipient:   recipient,
		Status:      enum.DispatchStatusFailed,
		MessageID:   messageID,
		AttemptedAt: d.now(),
		Err:         err,
	}
}
