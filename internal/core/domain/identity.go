package domain

// Role is the staff role assigned by the remote auth service.
type Role string

const (
	RoleWorker     Role = "WORKER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// Identity is the staff profile cached alongside the credential token.
type Identity struct {
	ID          string `json:"id"                    validate:"required"`
	CIN         string `json:"cin"                   validate:"required,len=8,numeric"`
	FirstName   string `json:"firstName"             validate:"required"`
	LastName    string `json:"lastName"              validate:"required"`
	Role        Role   `json:"role"                  validate:"required,oneof=WORKER SUPERVISOR ADMIN"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// FullName joins first and last name for display and logs.
func (i Identity) FullName() string {
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// Merge overlays the non-empty fields of update onto a copy of i.
func (i Identity) Merge(update Identity) Identity {
	merged := i
	if update.ID != "" {
		merged.ID = update.ID
	}
	if update.CIN != "" {
		merged.CIN = update.CIN
	}
	if update.FirstName != "" {
		merged.FirstName = update.FirstName
	}
	if update.LastName != "" {
		merged.LastName = update.LastName
	}
	if update.Role != "" {
		merged.Role = update.Role
	}
	if update.PhoneNumber != "" {
		merged.PhoneNumber = update.PhoneNumber
	}
	return merged
}
