package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	jwtValue = regexp.MustCompile(`^eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*$`)

	authValue = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`)

	// credentialURL matches DSNs and URLs with a password in the userinfo.
	credentialURL = regexp.MustCompile(`^[a-zA-Z][\w+.-]*://[^/:@\s]+:[^/@\s]+@`)
)

func redactOptions() []masq.Option {
	return []masq.Option{
		// Store and archive credentials.
		masq.WithFieldName("dsn"),
		masq.WithFieldName("DSN"),
		masq.WithFieldName("password"),
		masq.WithFieldName("secret_access_key"),
		masq.WithFieldName("SecretAccessKey"),
		masq.WithFieldPrefix("secret"),

		// Headers forwarded to or from upstreams.
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("token"),

		// Expert network contact details.
		masq.WithFieldName("email"),
		masq.WithFieldName("Email"),
		masq.WithFieldName("phone"),
		masq.WithFieldName("Phone"),

		masq.WithRegex(jwtValue),
		masq.WithRegex(authValue),
		masq.WithRegex(credentialURL),
	}
}

// Redactor returns a slog ReplaceAttr that masks credentials and expert
// contact details, plus whatever extra options name.
func Redactor(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(redactOptions(), extra...)...)
}
