package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateOriginEntry checks one allowed_origins entry. Full origins must be
// http or https with a host and no path; bare host entries must not contain
// a scheme separator or whitespace. "*" allows every origin.
func ValidateOriginEntry(entry string) error {
	if entry == "*" {
		return nil
	}
	if entry == "" || strings.ContainsAny(entry, " \t\r\n") {
		return fmt.Errorf("origin %q is empty or contains whitespace", entry)
	}

	if !strings.Contains(entry, "://") {
		host := entry
		if i := strings.LastIndexByte(host, ':'); i > 0 {
			host = host[:i]
		}
		return ValidateHost(host)
	}

	parsed, err := url.Parse(entry)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid origin scheme: %s (only http/https allowed)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("origin must have a valid hostname")
	}

	if (parsed.Path != "" && parsed.Path != "/") || parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("origin %q must be a scheme and host only", entry)
	}

	return nil
}
