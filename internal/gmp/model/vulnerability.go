package model

import (
	"time"

	"gsa/internal/gmp/cvss"
	"gsa/internal/gmp/parser"
)

// Vulnerability aggregates the results of one NVT over all reports.
type Vulnerability struct {
	Model
	Type           string      `json:"type"`
	Severity       *float64    `json:"severity,omitempty"`
	SeverityRating cvss.Rating `json:"severity_rating"`
	Qod            float64     `json:"qod"`
	ResultCount    int         `json:"result_count"`
	HostCount      int         `json:"host_count"`
	OldestResult   time.Time   `json:"oldest_result"`
	NewestResult   time.Time   `json:"newest_result"`
}

// NewVulnerabilityFromElement parses a <vuln> element.
func NewVulnerabilityFromElement(el *parser.Element) Vulnerability {
	v := Vulnerability{
		Model:        ParseModel(el, "vulnerability"),
		Type:         el.ChildText("type"),
		Severity:     parser.ParseSeverity(el.ChildText("severity")),
		ResultCount:  parser.IntOr(el.ChildText("results/count"), 0),
		HostCount:    parser.IntOr(el.ChildText("hosts/count"), 0),
		OldestResult: parser.ParseDate(el.ChildText("results/oldest")),
		NewestResult: parser.ParseDate(el.ChildText("results/newest")),
	}

	// qod is either a plain number or a <value>/<type> pair
	if q, ok := parser.ParseFloat(el.ChildText("qod")); ok {
		v.Qod = q
	} else {
		v.Qod = parser.ParseQod(el.Child("qod")).Value
	}
	v.SeverityRating = cvss.SeverityRating(v.Severity)
	return v
}
