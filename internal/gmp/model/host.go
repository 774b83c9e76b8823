package model

import (
	"time"

	"gsa/internal/gmp/cvss"
	"gsa/internal/gmp/parser"
)

// Identifier is a piece of information identifying a host.
type Identifier struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Value            string    `json:"value"`
	CreationTime     time.Time `json:"creation_time"`
	ModificationTime time.Time `json:"modification_time"`
	SourceID         string    `json:"source_id,omitempty"`
	SourceType       string    `json:"source_type,omitempty"`
	SourceData       string    `json:"source_data,omitempty"`
	SourceDeleted    bool      `json:"source_deleted,omitempty"`
	OS               string    `json:"os,omitempty"`
}

// HostDetail is a key/value detail collected by a scan.
type HostDetail struct {
	Value      string `json:"value"`
	SourceID   string `json:"source_id,omitempty"`
	SourceType string `json:"source_type,omitempty"`
}

// RouteHop is one host of a traceroute.
type RouteHop struct {
	ID         string `json:"id,omitempty"`
	IP         string `json:"ip"`
	Distance   int    `json:"distance"`
	SameSource bool   `json:"same_source"`
}

// Host is an asset of type host.
type Host struct {
	Model
	Hostname       string                `json:"hostname,omitempty"`
	IP             string                `json:"ip,omitempty"`
	OS             string                `json:"os,omitempty"`
	OSName         string                `json:"os_name,omitempty"`
	Severity       *float64              `json:"severity,omitempty"`
	SeverityRating cvss.Rating           `json:"severity_rating"`
	Identifiers    []Identifier          `json:"identifiers,omitempty"`
	Details        map[string]HostDetail `json:"details,omitempty"`
	Routes         [][]RouteHop          `json:"routes,omitempty"`
}

// NewHostFromElement parses an <asset> element of type host.
func NewHostFromElement(el *parser.Element) Host {
	h := Host{Model: ParseModel(el, "host")}

	for _, id := range el.Child("identifiers").ChildrenNamed("identifier") {
		ident := Identifier{
			ID:               id.Attr("id"),
			Name:             id.ChildText("name"),
			Value:            id.ChildText("value"),
			CreationTime:     parser.ParseDate(id.ChildText("creation_time")),
			ModificationTime: parser.ParseDate(id.ChildText("modification_time")),
			SourceID:         id.Child("source").Attr("id"),
			SourceType:       id.ChildText("source/type"),
			SourceData:       id.ChildText("source/data"),
			SourceDeleted:    parser.ParseBoolean(id.ChildText("source/deleted")),
			OS:               id.Child("os").Attr("id"),
		}
		h.Identifiers = append(h.Identifiers, ident)

		// identifiers are sorted newest first, keep the first value per name
		switch ident.Name {
		case "hostname":
			if h.Hostname == "" {
				h.Hostname = ident.Value
			}
		case "ip":
			if h.IP == "" {
				h.IP = ident.Value
			}
		}
	}

	host := el.Child("host")
	h.Severity = parser.ParseSeverity(host.ChildText("severity/value"))
	h.SeverityRating = cvss.SeverityRating(h.Severity)

	if details := host.ChildrenNamed("detail"); len(details) > 0 {
		h.Details = make(map[string]HostDetail, len(details))
		for _, d := range details {
			h.Details[d.ChildText("name")] = HostDetail{
				Value:      d.ChildText("value"),
				SourceID:   d.Child("source").Attr("id"),
				SourceType: d.Child("source").Attr("type"),
			}
		}
	}
	h.OS = h.Details["best_os_cpe"].Value
	h.OSName = h.Details["best_os_txt"].Value

	for _, route := range host.Child("routes").ChildrenNamed("route") {
		var hops []RouteHop
		for _, hop := range route.ChildrenNamed("host") {
			hops = append(hops, RouteHop{
				ID:         hop.Attr("id"),
				IP:         hop.ChildText("ip"),
				Distance:   parser.IntOr(hop.Attr("distance"), 0),
				SameSource: parser.ParseBoolean(hop.Attr("same_source")),
			})
		}
		h.Routes = append(h.Routes, hops)
	}

	if h.IP == "" {
		h.IP = h.Name
	}
	return h
}
