package configfile

import (
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	mailerrors "github.com/customeros/reportmailer/internal/errors"
)

// Keys recognised in the report configuration file.
const (
	KeyClientsEmail   = "clients_email"
	KeySchedule       = "schedule"
	KeyRecurrence     = "recurrence"
	KeyReportFilePath = "report_file_path"
	KeyEmailSubject   = "email_subject"
	KeyEmailBody      = "email_body"
)

var loadOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// Read parses a flat key=value file. Blank lines and lines starting with '#'
// or ';' are skipped, whitespace around keys and values is trimmed and
// values are otherwise kept verbatim. Keys under a [section] header are
// ignored.
func Read(path string) (map[string]string, error) {
	file, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, errors.Wrapf(mailerrors.ErrConfigFileUnreadable, "%s: %v", path, err)
	}
	return file.Section(ini.DefaultSection).KeysHash(), nil
}
