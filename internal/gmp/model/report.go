package model

import (
	"time"

	"gsa/internal/gmp/parser"
)

// SeverityCounts holds the number of results per severity class.
type SeverityCounts struct {
	Critical      int `json:"critical"`
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	Log           int `json:"log"`
	FalsePositive int `json:"false_positive"`
	Total         int `json:"total"`
}

// ResultCounts splits result numbers into the complete and the filtered view.
type ResultCounts struct {
	Full     SeverityCounts `json:"full"`
	Filtered SeverityCounts `json:"filtered"`
}

// ReportSeverity is the highest severity of a report.
type ReportSeverity struct {
	Full     *float64 `json:"full,omitempty"`
	Filtered *float64 `json:"filtered,omitempty"`
}

// Report is a scan report. gvmd wraps the report data into an inner <report>
// element, both levels are merged here.
type Report struct {
	Model
	FormatID       string         `json:"format_id,omitempty"`
	Extension      string         `json:"extension,omitempty"`
	ContentType    string         `json:"content_type,omitempty"`
	Task           *Reference     `json:"task,omitempty"`
	ScanRunStatus  string         `json:"scan_run_status"`
	Timestamp      time.Time      `json:"timestamp"`
	ScanStart      time.Time      `json:"scan_start"`
	ScanEnd        time.Time      `json:"scan_end"`
	Timezone       string         `json:"timezone,omitempty"`
	TimezoneAbbrev string         `json:"timezone_abbrev,omitempty"`
	HostCount      int            `json:"host_count"`
	VulnCount      int            `json:"vuln_count"`
	OSCount        int            `json:"os_count"`
	AppCount       int            `json:"app_count"`
	SSLCertCount   int            `json:"ssl_cert_count"`
	ClosedCVECount int            `json:"closed_cve_count"`
	ErrorCount     int            `json:"error_count"`
	PortCount      int            `json:"port_count"`
	ResultCounts   ResultCounts   `json:"result_counts"`
	Severity       ReportSeverity `json:"severity"`
	Results        []Result       `json:"results,omitempty"`
}

// NewReportFromElement parses a <report> element as returned by get_reports.
func NewReportFromElement(el *parser.Element) Report {
	r := Report{
		Model:       ParseModel(el, "report"),
		FormatID:    el.Attr("format_id"),
		Extension:   el.Attr("extension"),
		ContentType: el.Attr("content_type"),
		Task:        ParseReference(el.Child("task")),
	}

	inner := el.Child("report")
	if inner == nil {
		// get_report with a non XML format or a report_format_id returns the data directly
		inner = el
	}

	r.ScanRunStatus = inner.ChildText("scan_run_status")
	r.Timestamp = parser.ParseDate(inner.ChildText("timestamp"))
	r.ScanStart = parser.ParseDate(inner.ChildText("scan_start"))
	r.ScanEnd = parser.ParseDate(inner.ChildText("scan_end"))
	r.Timezone = inner.ChildText("timezone")
	r.TimezoneAbbrev = inner.ChildText("timezone_abbrev")
	r.HostCount = countChild(inner, "hosts")
	r.VulnCount = countChild(inner, "vulns")
	r.OSCount = countChild(inner, "os")
	r.AppCount = countChild(inner, "apps")
	r.SSLCertCount = countChild(inner, "ssl_certs")
	r.ClosedCVECount = countChild(inner, "closed_cves")
	r.ErrorCount = countChild(inner, "errors")
	r.PortCount = countChild(inner, "ports")
	r.ResultCounts = parseResultCounts(inner.Child("result_count"))
	r.Severity = ReportSeverity{
		Full:     parser.ParseSeverity(inner.ChildText("severity/full")),
		Filtered: parser.ParseSeverity(inner.ChildText("severity/filtered")),
	}
	if r.Task == nil {
		r.Task = ParseReference(inner.Child("task"))
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = parser.ParseDate(el.ChildText("name"))
	}

	for _, res := range inner.Child("results").ChildrenNamed("result") {
		r.Results = append(r.Results, NewResultFromElement(res))
	}
	return r
}

// IsRunning reports whether the scan producing the report is still active.
func (r Report) IsRunning() bool {
	switch TaskStatus(r.ScanRunStatus) {
	case TaskStatusRunning, TaskStatusRequested, TaskStatusQueued, TaskStatusStopRequested, TaskStatusProcessing:
		return true
	}
	return false
}

func countChild(el *parser.Element, name string) int {
	c := el.Child(name)
	if c == nil {
		return 0
	}
	if v, ok := parser.ParseInt(c.ChildText("count")); ok {
		return v
	}
	return parser.CountOf(c)
}

// severity class -> element names, newest spelling first
var severityClasses = []struct {
	names []string
	set   func(*SeverityCounts, int)
}{
	{[]string{"critical"}, func(c *SeverityCounts, v int) { c.Critical = v }},
	{[]string{"high", "hole"}, func(c *SeverityCounts, v int) { c.High = v }},
	{[]string{"medium", "warning"}, func(c *SeverityCounts, v int) { c.Medium = v }},
	{[]string{"low", "info"}, func(c *SeverityCounts, v int) { c.Low = v }},
	{[]string{"log"}, func(c *SeverityCounts, v int) { c.Log = v }},
	{[]string{"false_positive"}, func(c *SeverityCounts, v int) { c.FalsePositive = v }},
}

// parseResultCounts handles both the nested <high><full/><filtered/></high>
// layout and the flat <hole>3</hole> layout of older gvmd releases.
func parseResultCounts(el *parser.Element) ResultCounts {
	var rc ResultCounts
	if el == nil {
		return rc
	}
	rc.Full.Total = parser.IntOr(el.ChildText("full"), parser.CountOf(el))
	rc.Filtered.Total = parser.IntOr(el.ChildText("filtered"), rc.Full.Total)

	for _, class := range severityClasses {
		for _, name := range class.names {
			c := el.Child(name)
			if c == nil {
				continue
			}
			full := parser.IntOr(c.ChildText("full"), parser.IntOr(c.Value(), 0))
			filtered := parser.IntOr(c.ChildText("filtered"), full)
			class.set(&rc.Full, full)
			class.set(&rc.Filtered, filtered)
			break
		}
	}
	return rc
}
