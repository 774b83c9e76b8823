package model

import "gsa/internal/gmp/parser"

// Authentication methods of a user.
const (
	AuthMethodPassword = "password"
	AuthMethodLDAP     = "ldap"
	AuthMethodRADIUS   = "radius"
)

// Access rule for user hosts and interfaces.
const (
	AccessDenyAll  = "deny_all"  // allow="1" with an empty list
	AccessAllowAll = "allow_all" // allow="0" with an empty list
	AccessAllow    = "allow"     // only the listed entries
	AccessDeny     = "deny"      // everything but the listed entries
)

// AccessList is the host or interface restriction of a user.
type AccessList struct {
	Rule    string   `json:"rule"`
	Entries []string `json:"entries,omitempty"`
}

// User is a GMP user account.
type User struct {
	Model
	Roles      []Reference `json:"roles,omitempty"`
	Groups     []Reference `json:"groups,omitempty"`
	Hosts      AccessList  `json:"hosts"`
	Ifaces     AccessList  `json:"ifaces"`
	AuthMethod string      `json:"auth_method"`
}

// NewUserFromElement parses a <user> element.
func NewUserFromElement(el *parser.Element) User {
	u := User{
		Model:      ParseModel(el, "user"),
		Roles:      ParseReferences(el, "role"),
		Groups:     ParseReferences(el.Child("groups"), "group"),
		Hosts:      parseAccessList(el.Child("hosts")),
		Ifaces:     parseAccessList(el.Child("ifaces")),
		AuthMethod: AuthMethodPassword,
	}
	for _, src := range el.Child("sources").ChildrenNamed("source") {
		switch src.Value() {
		case "ldap_connect":
			u.AuthMethod = AuthMethodLDAP
		case "radius_connect":
			u.AuthMethod = AuthMethodRADIUS
		}
	}
	return u
}

func parseAccessList(el *parser.Element) AccessList {
	entries := parser.ParseCsv(el.Value())
	allow := parser.ParseBoolean(el.Attr("allow"))
	switch {
	case len(entries) == 0 && allow:
		return AccessList{Rule: AccessDenyAll}
	case len(entries) == 0:
		return AccessList{Rule: AccessAllowAll}
	case allow:
		return AccessList{Rule: AccessAllow, Entries: entries}
	}
	return AccessList{Rule: AccessDeny, Entries: entries}
}

// Role is a named set of permissions assigned to users.
type Role struct {
	Model
	Users []string `json:"users,omitempty"`
}

// NewRoleFromElement parses a <role> element.
func NewRoleFromElement(el *parser.Element) Role {
	return Role{
		Model: ParseModel(el, "role"),
		Users: parser.ParseCsv(el.ChildText("users")),
	}
}

// Group is a named set of users.
type Group struct {
	Model
	Users []string `json:"users,omitempty"`
}

// NewGroupFromElement parses a <group> element.
func NewGroupFromElement(el *parser.Element) Group {
	return Group{
		Model: ParseModel(el, "group"),
		Users: parser.ParseCsv(el.ChildText("users")),
	}
}

// Permission grants a subject the right to run a command, optionally on one resource.
type Permission struct {
	Model
	Resource *Reference `json:"resource,omitempty"`
	Subject  *Reference `json:"subject,omitempty"`
}

// NewPermissionFromElement parses a <permission> element.
func NewPermissionFromElement(el *parser.Element) Permission {
	p := Permission{
		Model:    ParseModel(el, "permission"),
		Resource: ParseReference(el.Child("resource")),
		Subject:  ParseReference(el.Child("subject")),
	}
	if p.Resource != nil {
		p.Resource.Type = NormalizeType(p.Resource.Type)
	}
	return p
}

// IsGlobal reports whether the permission is not bound to a resource.
func (p Permission) IsGlobal() bool { return p.Resource == nil }
