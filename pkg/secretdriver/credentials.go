package secretdriver

import (
	"bytes"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"
)

// credentialSchema describes the wire shape used by the Secrets
// Manager rotation lambdas: username and password are required, the
// connection endpoint fields are optional. Port is allowed as either
// a string or a number since rotation tooling emits both.
const credentialSchema = `{
	"type": "object",
	"required": ["username", "password"],
	"properties": {
		"username": {"type": "string"},
		"password": {"type": "string"},
		"host":     {"type": "string"},
		"port":     {"type": ["string", "integer"]},
		"dbname":   {"type": "string"}
	}
}`

var compiledCredentialSchema = gojsonschema.NewStringLoader(credentialSchema)

// Credentials is a credential record parsed from a secret's JSON
// payload. It is derived fresh on every connection attempt and
// discarded immediately after use; the proxy never caches it.
type Credentials struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Host     string     `json:"host"`
	Port     portNumber `json:"port"`
	Database string     `json:"dbname"`
}

// portNumber accepts a port given as either a JSON string or a JSON
// number and keeps its textual form.
type portNumber string

func (p *portNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = portNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = portNumber(n.String())
	return nil
}

func (p portNumber) String() string { return string(p) }

// ParseCredentials parses a secret string into a credential record.
// A payload that is not a JSON object, fails schema validation or
// lacks username/password yields a *ParseError.
func ParseCredentials(secretString string) (Credentials, error) {
	result, err := gojsonschema.Validate(compiledCredentialSchema, gojsonschema.NewStringLoader(secretString))
	if err != nil {
		return Credentials{}, &ParseError{Reason: "secret payload is not valid JSON", Err: err}
	}
	if !result.Valid() {
		reason := "secret payload does not match the expected credential shape"
		if len(result.Errors()) > 0 {
			reason = result.Errors()[0].String()
		}
		return Credentials{}, &ParseError{Reason: reason}
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(secretString), &creds); err != nil {
		return Credentials{}, &ParseError{Reason: "secret payload is not valid JSON", Err: err}
	}
	return creds, nil
}
