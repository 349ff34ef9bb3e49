package models

// AuthToken is a short-lived bearer token. It carries no expiry tracking;
// callers fetch a new one per use.
type AuthToken struct {
	Token            string
	ExpiresInSeconds int
}

// Valid reports whether the token can be presented upstream.
func (t AuthToken) Valid() bool { return t.Token != "" }
