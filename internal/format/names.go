package format

import (
	"strings"
)

// NameFromLDAPDN extracts "First Last" from a distinguished name of the form
// `CN=Last\, First,OU=...`. ok is false when the DN doesn't follow that form.
func NameFromLDAPDN(dn string) (name string, ok bool) {
	dn = strings.TrimSpace(dn)
	if len(dn) < 3 || !strings.EqualFold(dn[:3], "CN=") {
		return "", false
	}
	cn := firstRDNValue(dn[3:])

	last, first, found := strings.Cut(cn, `\,`)
	if !found {
		return "", false
	}
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if last == "" || first == "" {
		return "", false
	}
	return first + " " + last, true
}

// firstRDNValue returns s up to the first comma that isn't escaped with a backslash.
func firstRDNValue(s string) string {
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			return s[:i]
		}
	}
	return s
}

// CollaboratorLabel renders a direct collaborator as "First Last[role]",
// using the login when no name can be parsed from the DN.
func CollaboratorLabel(login, ldapDN, role string) string {
	name, ok := NameFromLDAPDN(ldapDN)
	if !ok {
		name = login
	}
	return withRole(name, role)
}

// TeamLabel renders a team as "name[permission]".
func TeamLabel(name, permission string) string {
	return withRole(name, permission)
}

func withRole(name, role string) string {
	return name + "[" + role + "]"
}
