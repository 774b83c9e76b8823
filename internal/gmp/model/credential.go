package model

import (
	"time"

	"gsa/internal/gmp/parser"
)

// Credential types.
const (
	CredentialTypeUsernamePassword = "up"
	CredentialTypeUsernameSSHKey   = "usk"
	CredentialTypeClientCert       = "cc"
	CredentialTypeSNMP             = "snmp"
	CredentialTypePGP              = "pgp"
	CredentialTypeSMIME            = "smime"
	CredentialTypePasswordOnly     = "pw"
	CredentialTypeKerberos         = "krb5"
)

var credentialTypeNames = map[string]string{
	CredentialTypeUsernamePassword: "Username + Password",
	CredentialTypeUsernameSSHKey:   "Username + SSH Key",
	CredentialTypeClientCert:       "Client Certificate",
	CredentialTypeSNMP:             "SNMP",
	CredentialTypePGP:              "PGP Encryption Key",
	CredentialTypeSMIME:            "S/MIME Certificate",
	CredentialTypePasswordOnly:     "Password only",
	CredentialTypeKerberos:         "SMB (Kerberos)",
}

// CertificateInfo summarizes the certificate stored in a credential.
type CertificateInfo struct {
	ActivationTime time.Time `json:"activation_time"`
	ExpirationTime time.Time `json:"expiration_time"`
	Issuer         string    `json:"issuer,omitempty"`
	MD5Fingerprint string    `json:"md5_fingerprint,omitempty"`
	TimeStatus     string    `json:"time_status,omitempty"`
}

// Credential stores secrets used by scanners and alerts.
type Credential struct {
	Model
	CredentialType  string           `json:"credential_type"`
	FullType        string           `json:"full_type,omitempty"`
	Login           string           `json:"login,omitempty"`
	AllowInsecure   bool             `json:"allow_insecure"`
	Formats         []string         `json:"formats,omitempty"`
	AuthAlgorithm   string           `json:"auth_algorithm,omitempty"`
	PrivacyAlgo     string           `json:"privacy_algorithm,omitempty"`
	KDC             string           `json:"kdc,omitempty"`
	Realm           string           `json:"realm,omitempty"`
	CertificateInfo *CertificateInfo `json:"certificate_info,omitempty"`
	Targets         []Reference      `json:"targets,omitempty"`
	Scanners        []Reference      `json:"scanners,omitempty"`
}

// NewCredentialFromElement parses a <credential> element.
func NewCredentialFromElement(el *parser.Element) Credential {
	c := Credential{
		Model:          ParseModel(el, "credential"),
		CredentialType: el.ChildText("type"),
		FullType:       el.ChildText("full_type"),
		Login:          el.ChildText("login"),
		AllowInsecure:  parser.ParseBoolean(el.ChildText("allow_insecure")),
		AuthAlgorithm:  el.ChildText("auth_algorithm"),
		PrivacyAlgo:    el.ChildText("privacy/algorithm"),
		KDC:            el.ChildText("kdc"),
		Realm:          el.ChildText("realm"),
		Targets:        ParseReferences(el.Child("targets"), "target"),
		Scanners:       ParseReferences(el.Child("scanners"), "scanner"),
	}
	for _, f := range el.Child("formats").ChildrenNamed("format") {
		c.Formats = append(c.Formats, f.Value())
	}
	if c.FullType == "" {
		c.FullType = credentialTypeNames[c.CredentialType]
	}
	if ci := el.Child("certificate_info"); ci != nil {
		c.CertificateInfo = &CertificateInfo{
			ActivationTime: parser.ParseDate(ci.ChildText("activation_time")),
			ExpirationTime: parser.ParseDate(ci.ChildText("expiration_time")),
			Issuer:         ci.ChildText("issuer"),
			MD5Fingerprint: ci.ChildText("md5_fingerprint"),
			TimeStatus:     ci.ChildText("time_status"),
		}
	}
	return c
}

// IsAllowInsecure reports whether the credential may be used over unencrypted channels.
func (c Credential) IsAllowInsecure() bool { return c.AllowInsecure }
