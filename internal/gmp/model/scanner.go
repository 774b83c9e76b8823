package model

import (
	"gsa/internal/gmp/parser"
)

// Scanner types as numbered by gvmd.
const (
	ScannerTypeOSP             = 1
	ScannerTypeOpenVAS         = 2
	ScannerTypeCVE             = 3
	ScannerTypeGreenboneSensor = 5
	ScannerTypeOpenVASD        = 6
)

var scannerTypeNames = map[int]string{
	ScannerTypeOSP:             "OSP Scanner",
	ScannerTypeOpenVAS:         "OpenVAS Scanner",
	ScannerTypeCVE:             "CVE Scanner",
	ScannerTypeGreenboneSensor: "Greenbone Sensor",
	ScannerTypeOpenVASD:        "OpenVASD Scanner",
}

// ScannerTypeName returns the display name of a scanner type.
func ScannerTypeName(t int) string {
	if n, ok := scannerTypeNames[t]; ok {
		return n
	}
	return "Unknown scanner type"
}

// ScannerInfo is what the scanner daemon reports about itself.
type ScannerInfo struct {
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Daemon      string `json:"daemon,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
	Description string `json:"description,omitempty"`
}

// Scanner is a configured scanner daemon.
type Scanner struct {
	Model
	ScannerType     int              `json:"scanner_type"`
	ScannerTypeName string           `json:"scanner_type_name"`
	Host            string           `json:"host,omitempty"`
	Port            int              `json:"port,omitempty"`
	CACertificate   string           `json:"ca_pub,omitempty"`
	CACertInfo      *CertificateInfo `json:"ca_pub_info,omitempty"`
	Credential      *Reference       `json:"credential,omitempty"`
	Configs         []Reference      `json:"configs,omitempty"`
	Tasks           []Reference      `json:"tasks,omitempty"`
	Info            *ScannerInfo     `json:"info,omitempty"`
}

// NewScannerFromElement parses a <scanner> element.
func NewScannerFromElement(el *parser.Element) Scanner {
	s := Scanner{
		Model:         ParseModel(el, "scanner"),
		ScannerType:   parser.IntOr(el.ChildText("type"), 0),
		Host:          el.ChildText("host"),
		Port:          parser.IntOr(el.ChildText("port"), 0),
		CACertificate: el.ChildText("ca_pub"),
		Credential:    ParseReference(el.Child("credential")),
		Configs:       ParseReferences(el.Child("configs"), "config"),
		Tasks:         ParseReferences(el.Child("tasks"), "task"),
	}
	s.ScannerTypeName = ScannerTypeName(s.ScannerType)

	if ci := el.Child("ca_pub_info"); ci != nil {
		s.CACertInfo = &CertificateInfo{
			ActivationTime: parser.ParseDate(ci.ChildText("activation_time")),
			ExpirationTime: parser.ParseDate(ci.ChildText("expiration_time")),
			Issuer:         ci.ChildText("issuer"),
			MD5Fingerprint: ci.ChildText("md5_fingerprint"),
			TimeStatus:     ci.ChildText("time_status"),
		}
	}
	if info := el.Child("info"); info != nil {
		s.Info = &ScannerInfo{
			Name:        info.ChildText("scanner/name"),
			Version:     info.ChildText("scanner/version"),
			Daemon:      info.ChildText("daemon/name"),
			Protocol:    info.ChildText("protocol/name"),
			Description: info.ChildText("description"),
		}
	}
	return s
}

// HasUnixSocket reports whether the scanner is reached over a local socket.
func (s Scanner) HasUnixSocket() bool {
	return len(s.Host) > 0 && s.Host[0] == '/'
}
