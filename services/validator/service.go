package validator

import (
	"context"
	"strings"
	"time"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/customeros/reportmailer/interfaces"
	"github.com/customeros/reportmailer/internal/cron"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/logger"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/tracing"
	"github.com/customeros/reportmailer/internal/utils"
	"github.com/customeros/reportmailer/services/configfile"
)

type configValidator struct {
	fs       afero.Fs
	resolver interfaces.DomainResolver
	log      logger.Logger
	now      func() time.Time
}

func NewConfigValidator(fs afero.Fs, resolver interfaces.DomainResolver, log logger.Logger) interfaces.ConfigValidator {
	return &configValidator{
		fs:       fs,
		resolver: resolver,
		log:      log,
		now:      utils.Now,
	}
}

// Validate checks the raw report configuration in one pass. The first failing
// check aborts validation and no parameter set is returned.
func (v *configValidator) Validate(ctx context.Context, raw map[string]string, sender models.Credentials) (*models.ParameterSet, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ConfigValidator.Validate")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	params, err := v.validate(raw, sender)
	if err != nil {
		tracing.TraceErr(span, err)
		v.log.Errorf("Configuration issue detected: %v", err)
		return nil, err
	}

	span.LogKV("recipients", len(params.Recipients), "reports", len(params.ReportPaths))
	v.log.Info("Report configuration parameters are correct")
	return params, nil
}

func (v *configValidator) validate(raw map[string]string, sender models.Credentials) (*models.ParameterSet, error) {
	// at least one client email
	recipients := utils.SplitList(strings.TrimSpace(raw[configfile.KeyClientsEmail]))
	if len(recipients) == 0 {
		return nil, mailerrors.ErrMissingRecipients
	}

	// schedule must be in the future
	scheduleAt, err := v.validateSchedule(raw[configfile.KeySchedule])
	if err != nil {
		return nil, err
	}

	recurrence := strings.TrimSpace(raw[configfile.KeyRecurrence])
	if recurrence != "" {
		if _, err := cron.ParseRecurrence(recurrence, 0); err != nil {
			return nil, err
		}
	}

	// every report file must exist
	reportPaths, err := v.validateReportPaths(raw[configfile.KeyReportFilePath])
	if err != nil {
		return nil, err
	}

	// sender credentials and outbound server
	if !sender.IsComplete() {
		return nil, errors.Wrap(mailerrors.ErrMissingCredentials, "sender username and password are required")
	}
	server, err := v.resolver.Resolve(sender.Username)
	if err != nil {
		return nil, errors.Wrap(err, "unknown server configuration for this email")
	}

	subject, hasSubject := raw[configfile.KeyEmailSubject]
	if !hasSubject || subject == "" {
		v.log.Warn("Email subject is missing.")
	}
	body, hasBody := raw[configfile.KeyEmailBody]
	if !hasBody || body == "" {
		v.log.Warn("Email body is missing.")
	}
	for _, recipient := range recipients {
		if !mailvalidate.ValidateEmailSyntax(recipient).IsValid {
			v.log.Warnf("Client email %s does not look like a valid address", recipient)
		}
	}

	return &models.ParameterSet{
		Recipients:  recipients,
		ScheduleAt:  scheduleAt,
		Recurrence:  recurrence,
		ReportPaths: reportPaths,
		Subject:     subject,
		Body:        body,
		Server:      server,
		Sender:      sender,
	}, nil
}

func (v *configValidator) validateSchedule(value string) (time.Time, error) {
	scheduleAt, err := time.ParseInLocation(utils.ScheduleLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, errors.Wrapf(mailerrors.ErrInvalidOrPastSchedule, "invalid datetime %q", value)
	}
	if !scheduleAt.After(v.now()) {
		return time.Time{}, errors.Wrapf(mailerrors.ErrInvalidOrPastSchedule, "datetime %q is not in the future", value)
	}
	return scheduleAt, nil
}

func (v *configValidator) validateReportPaths(value string) ([]string, error) {
	reportPaths := utils.SplitList(value)
	if len(reportPaths) == 0 {
		return nil, errors.Wrap(mailerrors.ErrMissingReportFile, "file is missing")
	}

	var missing []string
	for _, path := range reportPaths {
		exists, err := afero.Exists(v.fs, path)
		if err != nil || !exists {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(mailerrors.ErrMissingReportFile, "[%s]", strings.Join(missing, ", "))
	}
	return reportPaths, nil
}
