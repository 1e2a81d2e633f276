package distribution

// Role is a beneficiary's position in the ownership hierarchy. The wire
// format is a lowercase string; anything outside the three known values
// is kept verbatim but reported as unknown instead of silently falling
// through role-conditional logic.
type Role string

const (
	RoleSystem Role = "system"
	RoleAgent  Role = "agent"
	RoleUser   Role = "user"
)

func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleAgent, RoleUser:
		return true
	}
	return false
}

func (r Role) Label() string {
	switch r {
	case RoleSystem:
		return "System"
	case RoleAgent:
		return "Agent"
	case RoleUser:
		return "User"
	default:
		return "Unknown"
	}
}
