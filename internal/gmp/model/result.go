package model

import (
	"gsa/internal/gmp/cvss"
	"gsa/internal/gmp/parser"
)

// ResultHost is the scanned host of a result.
type ResultHost struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname,omitempty"`
	AssetID  string `json:"asset_id,omitempty"`
}

// Result is a single finding of a report.
type Result struct {
	Model
	Host             ResultHost  `json:"host"`
	Port             string      `json:"port,omitempty"`
	Threat           string      `json:"threat,omitempty"`
	Severity         *float64    `json:"severity,omitempty"`
	SeverityRating   cvss.Rating `json:"severity_rating"`
	OriginalSeverity *float64    `json:"original_severity,omitempty"`
	Qod              parser.Qod  `json:"qod"`
	Description      string      `json:"description,omitempty"`
	Nvt              *Nvt        `json:"nvt,omitempty"`
	Task             *Reference  `json:"task,omitempty"`
	Report           *Reference  `json:"report,omitempty"`
	Delta            string      `json:"delta,omitempty"`
	NoteCount        int         `json:"note_count"`
	OverrideCount    int         `json:"override_count"`
}

// NewResultFromElement parses a <result> element.
func NewResultFromElement(el *parser.Element) Result {
	r := Result{
		Model:            ParseModel(el, "result"),
		Port:             el.ChildText("port"),
		Threat:           el.ChildText("threat"),
		Severity:         parser.ParseSeverity(el.ChildText("severity")),
		OriginalSeverity: parser.ParseSeverity(el.ChildText("original_severity")),
		Qod:              parser.ParseQod(el.Child("qod")),
		Description:      el.ChildText("description"),
		Task:             ParseReference(el.Child("task")),
		Report:           ParseReference(el.Child("report")),
		Delta:            el.ChildText("delta"),
		NoteCount:        len(el.Child("notes").ChildrenNamed("note")),
		OverrideCount:    len(el.Child("overrides").ChildrenNamed("override")),
	}

	host := el.Child("host")
	r.Host = ResultHost{
		IP:       host.Value(),
		Hostname: host.ChildText("hostname"),
		AssetID:  host.Child("asset").Attr("asset_id"),
	}

	if nvt := el.Child("nvt"); nvt != nil {
		n := NewNvtFromElement(nvt)
		r.Nvt = &n
		if r.Severity == nil {
			r.Severity = n.Severity
		}
	}
	r.SeverityRating = cvss.SeverityRating(r.Severity)
	return r
}
