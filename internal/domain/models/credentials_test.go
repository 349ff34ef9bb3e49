package models

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_NeverRendered(t *testing.T) {
	const identifier, secret = "tapi-id-7f3a", "tapi-secret-9c1e"
	creds := NewCredentials(identifier, secret)

	holder := struct {
		Name  string
		Creds Credentials
	}{Name: "config", Creds: creds}

	js, err := json.Marshal(creds)
	require.NoError(t, err)
	nested, err := json.Marshal(holder)
	require.NoError(t, err)

	outputs := map[string]string{
		"%v":          fmt.Sprintf("%v", creds),
		"%+v":         fmt.Sprintf("%+v", creds),
		"%#v":         fmt.Sprintf("%#v", creds),
		"%s":          fmt.Sprintf("%s", creds),
		"%v pointer":  fmt.Sprintf("%v", &creds),
		"%+v nested":  fmt.Sprintf("%+v", holder),
		"json":        string(js),
		"json nested": string(nested),
	}
	for name, out := range outputs {
		assert.NotContains(t, out, identifier, name)
		assert.NotContains(t, out, secret, name)
		assert.Contains(t, out, redacted, name)
	}
}

func TestCredentials_Missing(t *testing.T) {
	assert.Empty(t, NewCredentials("id", "secret").Missing())
	assert.Equal(t, []string{"identifier", "secret"}, NewCredentials("", " \t").Missing())
	assert.Equal(t, []string{"secret"}, NewCredentials("id", "").Missing())
}
