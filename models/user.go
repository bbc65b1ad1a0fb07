package models

const (
	RoleAttendee  = "ATTENDEE"
	RoleOrganizer = "ORGANIZER"
	RoleStaff     = "STAFF"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"` // unique
	Secret  string `json:"-"`     // bcrypt hash, never serialized
	Role    string `json:"role"`
	Contact string `json:"contact"`
}

type Role struct {
	ID       string `json:"id"`
	RoleName string `json:"role_name"`
}
