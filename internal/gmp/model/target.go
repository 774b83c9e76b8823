package model

import "gsa/internal/gmp/parser"

// CredentialRef is a credential reference of a target, ssh ones carry a port.
type CredentialRef struct {
	Reference
	Port int `json:"port,omitempty"`
}

// Target describes which hosts and ports a task scans.
type Target struct {
	Model
	Hosts                []string                 `json:"hosts,omitempty"`
	ExcludeHosts         []string                 `json:"exclude_hosts,omitempty"`
	MaxHosts             int                      `json:"max_hosts"`
	PortList             *Reference               `json:"port_list,omitempty"`
	Credentials          map[string]CredentialRef `json:"credentials,omitempty"`
	AliveTests           string                   `json:"alive_tests,omitempty"`
	ReverseLookupOnly    bool                     `json:"reverse_lookup_only"`
	ReverseLookupUnify   bool                     `json:"reverse_lookup_unify"`
	AllowSimultaneousIPs bool                     `json:"allow_simultaneous_ips"`
	Tasks                []Reference              `json:"tasks,omitempty"`
}

var targetCredentials = []string{
	"ssh_credential",
	"ssh_elevate_credential",
	"smb_credential",
	"esxi_credential",
	"snmp_credential",
	"krb5_credential",
}

// NewTargetFromElement parses a <target> element.
func NewTargetFromElement(el *parser.Element) Target {
	t := Target{
		Model:                ParseModel(el, "target"),
		Hosts:                parser.ParseCsv(el.ChildText("hosts")),
		ExcludeHosts:         parser.ParseCsv(el.ChildText("exclude_hosts")),
		MaxHosts:             parser.IntOr(el.ChildText("max_hosts"), 0),
		PortList:             ParseReference(el.Child("port_list")),
		ReverseLookupOnly:    parser.ParseBoolean(el.ChildText("reverse_lookup_only")),
		ReverseLookupUnify:   parser.ParseBoolean(el.ChildText("reverse_lookup_unify")),
		AllowSimultaneousIPs: parser.ParseBoolean(el.ChildText("allow_simultaneous_ips")),
		Tasks:                ParseReferences(el.Child("tasks"), "task"),
	}

	// alive_tests is a plain string or an <alive_test> list in newer releases
	if at := el.Child("alive_tests"); at != nil {
		t.AliveTests = at.Value()
		if t.AliveTests == "" {
			if first := at.Child("alive_test"); first != nil {
				t.AliveTests = first.Value()
			}
		}
	}

	for _, name := range targetCredentials {
		ref := ParseReference(el.Child(name))
		if ref == nil {
			continue
		}
		if t.Credentials == nil {
			t.Credentials = make(map[string]CredentialRef)
		}
		t.Credentials[name] = CredentialRef{
			Reference: *ref,
			Port:      parser.IntOr(el.Child(name).ChildText("port"), 0),
		}
	}
	return t
}
