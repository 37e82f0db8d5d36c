// Package account holds the records exchanged between the client state
// machine and the account service: the account summary returned by
// authentication, the extended profile, and the patch applied by profile
// edits. Both the in-process mock and the remote server speak these types.
package account

import "time"

// Role is the coarse permission level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Summary is the minimal identity produced by authentication.
type Summary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Profile is the full editable record shown on the dashboard.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	JoinDate  time.Time `json:"joinDate"`
	LastLogin time.Time `json:"lastLogin"`
}

// Summary projects the profile down to its identity fields.
func (p Profile) Summary() Summary {
	return Summary{ID: p.ID, Email: p.Email, Name: p.Name, Role: p.Role}
}

// ProfilePatch carries the fields a user may edit. All four fields are sent
// on every edit, so applying a patch overwrites them as a group.
type ProfilePatch struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// Apply returns p with the patch merged in. The display name follows the
// full name so the account summary stays in step with the profile.
// Applying the same patch twice yields the same record.
func (pp ProfilePatch) Apply(p Profile) Profile {
	p.FullName = pp.FullName
	p.Name = pp.FullName
	p.Email = pp.Email
	p.Bio = pp.Bio
	p.Avatar = pp.Avatar
	return p
}
