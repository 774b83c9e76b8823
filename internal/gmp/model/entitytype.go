package model

import "strings"

// front-end type -> GMP resource type
var apiTypes = map[string]string{
	"certbund":        "cert_bund_adv",
	"dfncert":         "dfn_cert_adv",
	"host":            "asset",
	"operatingsystem": "asset",
	"portlist":        "port_list",
	"reportformat":    "report_format",
	"scanconfig":      "config",
	"tlscertificate":  "tls_certificate",
	"vulnerability":   "vuln",
}

// GMP or legacy spelling -> front-end type
var normalizedTypes = map[string]string{
	"cert_bund_adv":   "certbund",
	"config":          "scanconfig",
	"dfn_cert_adv":    "dfncert",
	"os":              "operatingsystem",
	"port_list":       "portlist",
	"report_format":   "reportformat",
	"tls_certificate": "tlscertificate",
	"vuln":            "vulnerability",
}

var typeNames = map[string]string{
	"alert":           "Alert",
	"certbund":        "CERT-Bund Advisory",
	"cpe":             "CPE",
	"credential":      "Credential",
	"cve":             "CVE",
	"dfncert":         "DFN-CERT Advisory",
	"filter":          "Filter",
	"group":           "Group",
	"host":            "Host",
	"note":            "Note",
	"nvt":             "NVT",
	"operatingsystem": "Operating System",
	"override":        "Override",
	"permission":      "Permission",
	"portlist":        "Port List",
	"report":          "Report",
	"reportformat":    "Report Format",
	"result":          "Result",
	"role":            "Role",
	"scanconfig":      "Scan Config",
	"scanner":         "Scanner",
	"schedule":        "Schedule",
	"tag":             "Tag",
	"target":          "Target",
	"task":            "Task",
	"tlscertificate":  "TLS Certificate",
	"user":            "User",
	"vulnerability":   "Vulnerability",
}

// ApiType converts a front-end entity type into the GMP resource type.
func ApiType(entityType string) string {
	t := strings.ToLower(entityType)
	if v, ok := apiTypes[t]; ok {
		return v
	}
	return t
}

// NormalizeType converts a GMP resource type into the front-end entity type.
func NormalizeType(entityType string) string {
	t := strings.ToLower(entityType)
	if v, ok := normalizedTypes[t]; ok {
		return v
	}
	return t
}

// TypeName returns the display name of an entity type.
func TypeName(entityType string) string {
	if n, ok := typeNames[NormalizeType(entityType)]; ok {
		return n
	}
	return "Unknown"
}

// PluralType returns the plural form used in GMP command names.
func PluralType(t string) string {
	switch {
	case t == "info", strings.HasSuffix(t, "s"):
		return t
	case t == "policy":
		return "policies"
	}
	return t + "s"
}
