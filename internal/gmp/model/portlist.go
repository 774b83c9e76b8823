package model

import "gsa/internal/gmp/parser"

// PortRange is a contiguous range of ports of one protocol.
type PortRange struct {
	ID       string `json:"id"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Protocol string `json:"protocol"`
	Comment  string `json:"comment,omitempty"`
}

// PortCount is the number of ports per protocol.
type PortCount struct {
	All int `json:"all"`
	TCP int `json:"tcp"`
	UDP int `json:"udp"`
}

// PortList is a named set of port ranges.
type PortList struct {
	Model
	PortCount  PortCount   `json:"port_count"`
	PortRanges []PortRange `json:"port_ranges,omitempty"`
	Predefined bool        `json:"predefined"`
	Targets    []Reference `json:"targets,omitempty"`
}

// NewPortListFromElement parses a <port_list> element.
func NewPortListFromElement(el *parser.Element) PortList {
	p := PortList{
		Model: ParseModel(el, "portlist"),
		PortCount: PortCount{
			All: parser.IntOr(el.ChildText("port_count/all"), 0),
			TCP: parser.IntOr(el.ChildText("port_count/tcp"), 0),
			UDP: parser.IntOr(el.ChildText("port_count/udp"), 0),
		},
		Predefined: parser.ParseBoolean(el.ChildText("predefined")),
		Targets:    ParseReferences(el.Child("targets"), "target"),
	}
	for _, r := range el.Child("port_ranges").ChildrenNamed("port_range") {
		pr := PortRange{
			ID:       r.Attr("id"),
			Start:    parser.IntOr(r.ChildText("start"), 0),
			End:      parser.IntOr(r.ChildText("end"), 0),
			Protocol: r.ChildText("type"),
			Comment:  r.ChildText("comment"),
		}
		if pr.End == 0 {
			pr.End = pr.Start
		}
		p.PortRanges = append(p.PortRanges, pr)
	}
	return p
}
