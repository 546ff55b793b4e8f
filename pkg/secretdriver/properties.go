package secretdriver

// Property keys recognized by the connect flow.
const (
	PropertyUser     = "user"
	PropertyPassword = "password"
)

// Properties carries the per-connection key/value settings handed to
// the real driver, mirroring JDBC connection properties. A nil map is
// valid and treated as empty.
type Properties map[string]string

// Get returns the value for key, or "" when absent.
func (p Properties) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// Clone returns a copy of p that can be mutated without affecting the
// caller's map.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p)+2)
	for k, v := range p {
		out[k] = v
	}
	return out
}
