package model

// Permissions are the access flags the API reports for a team or user.
type Permissions struct {
	Admin    bool `json:"admin"`
	Maintain bool `json:"maintain"`
	Push     bool `json:"push"`
	Triage   bool `json:"triage"`
	Pull     bool `json:"pull"`
}

// PermissionsFromMap converts the API's permission map.
func PermissionsFromMap(m map[string]bool) Permissions {
	return Permissions{
		Admin:    m["admin"],
		Maintain: m["maintain"],
		Push:     m["push"],
		Triage:   m["triage"],
		Pull:     m["pull"],
	}
}

// Highest returns the name of the strongest permission granted, or "" if none.
func (p Permissions) Highest() string {
	switch {
	case p.Admin:
		return "admin"
	case p.Maintain:
		return "maintain"
	case p.Push:
		return "push"
	case p.Triage:
		return "triage"
	case p.Pull:
		return "pull"
	default:
		return ""
	}
}

// Collaborator is a user (or organization) granted direct access to a repository.
type Collaborator struct {
	Login       string      `json:"login"`
	LDAPDN      string      `json:"ldapDn,omitempty"`
	RoleName    string      `json:"roleName,omitempty"`
	Type        string      `json:"type,omitempty"` // User or Organization
	Permissions Permissions `json:"permissions"`
}

// Role returns the role name, falling back to the highest permission flag.
func (c Collaborator) Role() string {
	if c.RoleName != "" {
		return c.RoleName
	}
	return c.Permissions.Highest()
}

// Team is a team with access to a repository.
type Team struct {
	Name        string      `json:"name"`
	ID          int64       `json:"id"`
	Slug        string      `json:"slug"`
	Permission  string      `json:"permission"`
	Permissions Permissions `json:"permissions"`
}
