package utils

import (
	"strings"
)

// ExtractDomainFromEmail returns the lower-cased domain of a bare address or
// of the "Name <user@domain>" form, or "" when there is none.
func ExtractDomainFromEmail(email string) string {
	address := strings.TrimSpace(email)
	if start, end := strings.LastIndex(address, "<"), strings.LastIndex(address, ">"); start >= 0 && end > start {
		address = address[start+1 : end]
	}

	_, domain, found := strings.Cut(address, "@")
	if !found || strings.Contains(domain, "@") {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(domain))
}
