package parser

import "time"

// EnvelopeMeta is the session information gsad wraps around every response.
type EnvelopeMeta struct {
	Version          string        `json:"version,omitempty"`
	VendorVersion    string        `json:"vendor_version,omitempty"`
	Token            string        `json:"-"`
	Time             string        `json:"time,omitempty"`
	Timezone         string        `json:"timezone,omitempty"`
	Login            string        `json:"login,omitempty"`
	Role             string        `json:"role,omitempty"`
	I18n             string        `json:"i18n,omitempty"`
	ClientAddress    string        `json:"client_address,omitempty"`
	SessionExpiry    time.Time     `json:"session_expiry,omitempty"`
	BackendOperation time.Duration `json:"backend_operation,omitempty"`
}

// ParseEnvelopeMeta extracts the meta data from an <envelope> element.
// Missing fields are left empty.
func ParseEnvelopeMeta(env *Element) EnvelopeMeta {
	meta := EnvelopeMeta{
		Version:          env.ChildText("version"),
		VendorVersion:    env.ChildText("vendor_version"),
		Token:            env.ChildText("token"),
		Time:             env.ChildText("time"),
		Timezone:         env.ChildText("timezone"),
		Login:            env.ChildText("login"),
		Role:             env.ChildText("role"),
		I18n:             env.ChildText("i18n"),
		ClientAddress:    env.ChildText("client_address"),
		BackendOperation: ParseDuration(env.ChildText("backend_operation")),
	}
	// gsad sends the session expiry as a unix timestamp.
	if secs, ok := ParseInt(env.ChildText("session")); ok && secs > 0 {
		meta.SessionExpiry = time.Unix(int64(secs), 0).UTC()
	}
	return meta
}
