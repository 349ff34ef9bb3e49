package models

import "strings"

const redacted = "[REDACTED]"

// Credentials are the long-lived login/password pair exchanged for a
// bearer token. Values never leave the process through String, GoString
// or JSON encoding.
type Credentials struct {
	Identifier string
	Secret     string
}

// NewCredentials builds a Credentials value.
func NewCredentials(identifier, secret string) Credentials {
	return Credentials{Identifier: identifier, Secret: secret}
}

// Missing returns the names of blank fields, in declaration order.
func (c Credentials) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.Identifier) == "" {
		missing = append(missing, "identifier")
	}
	if strings.TrimSpace(c.Secret) == "" {
		missing = append(missing, "secret")
	}
	return missing
}

func (c Credentials) String() string {
	return "Credentials{identifier:" + redacted + ", secret:" + redacted + "}"
}

func (c Credentials) GoString() string { return c.String() }

func (c Credentials) MarshalJSON() ([]byte, error) {
	return []byte(`{"identifier":"` + redacted + `","secret":"` + redacted + `"}`), nil
}
