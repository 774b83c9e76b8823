package model

import (
	"strings"

	"gsa/internal/gmp/cvss"
	"gsa/internal/gmp/parser"
)

// NvtRefs groups the references of an NVT by kind.
type NvtRefs struct {
	CVEs  []string  `json:"cves,omitempty"`
	BIDs  []string  `json:"bids,omitempty"`
	Certs []CertRef `json:"certs,omitempty"`
	XRefs []XRef    `json:"xrefs,omitempty"`
}

// CertRef is a CERT-Bund or DFN-CERT advisory reference.
type CertRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// XRef is any other reference, usually a URL.
type XRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// NvtSolution describes how to fix the vulnerability.
type NvtSolution struct {
	Type        string `json:"type,omitempty"`
	Method      string `json:"method,omitempty"`
	Description string `json:"description,omitempty"`
}

// NvtSeverity is one entry of <severities>.
type NvtSeverity struct {
	Type   string   `json:"type"`
	Origin string   `json:"origin,omitempty"`
	Vector string   `json:"vector,omitempty"`
	Score  *float64 `json:"score,omitempty"`
}

// Nvt is a Network Vulnerability Test.
type Nvt struct {
	Model
	OID             string            `json:"oid"`
	Family          string            `json:"family,omitempty"`
	Category        int               `json:"category,omitempty"`
	Severity        *float64          `json:"severity,omitempty"`
	SeverityRating  cvss.Rating       `json:"severity_rating"`
	SeverityVector  string            `json:"severity_vector,omitempty"`
	Severities      []NvtSeverity     `json:"severities,omitempty"`
	Qod             parser.Qod        `json:"qod"`
	Tags            map[string]string `json:"tags,omitempty"`
	Refs            NvtRefs           `json:"refs"`
	Solution        *NvtSolution      `json:"solution,omitempty"`
	PreferenceCount int               `json:"preference_count"`
	Timeout         string            `json:"timeout,omitempty"`
	DefaultTimeout  string            `json:"default_timeout,omitempty"`
}

// some tags are only placeholders
const tagNotAvailable = "NOTAG"

// NewNvtFromElement parses either an <info> element wrapping an <nvt> (get_info)
// or a bare <nvt> element (get_nvts, results).
func NewNvtFromElement(el *parser.Element) Nvt {
	data := el
	if el.Name == "info" {
		data = el.Child("nvt")
	}

	n := Nvt{
		Model:           ParseModel(el, "nvt"),
		OID:             data.Attr("oid"),
		Family:          data.ChildText("family"),
		Category:        parser.IntOr(data.ChildText("category"), 0),
		Qod:             parser.ParseQod(data.Child("qod")),
		PreferenceCount: parser.IntOr(data.ChildText("preference_count"), -1),
		Timeout:         data.ChildText("timeout"),
		DefaultTimeout:  data.ChildText("default_timeout"),
	}
	if n.Name == "" {
		n.Name = data.ChildText("name")
	}
	if n.ID == "" {
		n.ID = n.OID
	}
	if n.CreationTime.IsZero() {
		n.CreationTime = parser.ParseDate(data.ChildText("creation_time"))
		n.ModificationTime = parser.ParseDate(data.ChildText("modification_time"))
	}

	n.Tags = make(map[string]string)
	for k, v := range parser.ParseProperties(data.ChildText("tags")) {
		if v != tagNotAvailable {
			n.Tags[k] = v
		}
	}

	n.parseSeverities(data)
	n.parseRefs(data.Child("refs"))
	n.parseSolution(data)
	return n
}

func (n *Nvt) parseSeverities(data *parser.Element) {
	sev := data.Child("severities")
	for _, s := range sev.ChildrenNamed("severity") {
		n.Severities = append(n.Severities, NvtSeverity{
			Type:   s.Attr("type"),
			Origin: s.ChildText("origin"),
			Vector: s.ChildText("value"),
			Score:  parser.ParseSeverity(s.ChildText("score")),
		})
	}

	n.Severity = parser.ParseSeverity(sev.Attr("score"))
	if n.Severity == nil {
		n.Severity = parser.ParseSeverity(data.ChildText("cvss_base"))
	}
	if len(n.Severities) > 0 {
		n.SeverityVector = n.Severities[0].Vector
		if n.Severity == nil {
			n.Severity = n.Severities[0].Score
		}
	}
	if n.SeverityVector == "" {
		n.SeverityVector = n.Tags["cvss_base_vector"]
	}

	// Older feeds only ship the vector, compute the score from it.
	if n.Severity == nil && n.SeverityVector != "" {
		if score, err := cvss.BaseScoreFromVector(n.SeverityVector); err == nil {
			n.Severity = &score
		}
	}
	n.SeverityRating = cvss.SeverityRating(n.Severity)
}

func (n *Nvt) parseRefs(refs *parser.Element) {
	for _, ref := range refs.ChildrenNamed("ref") {
		id := ref.Attr("id")
		kind := strings.ToLower(ref.Attr("type"))
		switch kind {
		case "cve", "cve_id":
			n.Refs.CVEs = append(n.Refs.CVEs, id)
		case "bid", "bugtraq_id":
			n.Refs.BIDs = append(n.Refs.BIDs, id)
		case "cert-bund", "dfn-cert":
			n.Refs.Certs = append(n.Refs.Certs, CertRef{ID: id, Type: kind})
		default:
			n.Refs.XRefs = append(n.Refs.XRefs, XRef{ID: id, Type: kind})
		}
	}
}

func (n *Nvt) parseSolution(data *parser.Element) {
	sol := data.Child("solution")
	s := NvtSolution{
		Type:        sol.Attr("type"),
		Method:      sol.Attr("method"),
		Description: sol.Value(),
	}
	if s.Type == "" {
		s.Type = n.Tags["solution_type"]
	}
	if s.Method == "" {
		s.Method = n.Tags["solution_method"]
	}
	if s.Description == "" {
		s.Description = n.Tags["solution"]
	}
	delete(n.Tags, "solution")
	delete(n.Tags, "solution_type")
	delete(n.Tags, "solution_method")

	if s != (NvtSolution{}) {
		n.Solution = &s
	}
}
