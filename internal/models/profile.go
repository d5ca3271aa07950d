package models

// Profile is the role-specific half of an account. A user has exactly one
// profile, chosen by role at registration time and never swapped afterwards.
type Profile interface {
	ProfileRole() UserRole
	Complete() bool
}

// ProfileForRole returns the empty profile variant matching the role, or nil
// for roles that carry no profile (admin).
func ProfileForRole(role UserRole) Profile {
	switch role {
	case UserRoleGuest:
		return &GuestProfile{}
	case UserRoleDriver:
		return &DriverProfile{}
	default:
		return nil
	}
}
