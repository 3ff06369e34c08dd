package employee

type Role string

const (
	RoleEmployee         Role = "employee"
	RoleReportingManager Role = "reporting_manager"
	RoleAdmin            Role = "admin"
	RoleSuperAdmin       Role = "super_admin"
)

// roleRank defines the total order of roles. Higher rank outranks lower.
var roleRank = map[Role]int{
	RoleEmployee:         0,
	RoleReportingManager: 1,
	RoleAdmin:            2,
	RoleSuperAdmin:       3,
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the position of r in the role order, or -1 for unknown roles.
func (r Role) Rank() int {
	rank, ok := roleRank[r]
	if !ok {
		return -1
	}
	return rank
}

// Outranks reports whether r is strictly higher than other in the hierarchy.
func (r Role) Outranks(other Role) bool {
	return r.IsValid() && other.IsValid() && roleRank[r] > roleRank[other]
}

// CanApprove reports whether an approver with role approverRole may approve
// a request authored by requestorRole.
//
// super_admin requests are never routed to a human approver: no role
// outranks super_admin, so nothing can approve them. They are auto-approved
// at creation (or by the background sweep) instead.
//
// admin and reporting_manager may only approve employee requests; approving
// an admin requires a super_admin.
func CanApprove(approverRole, requestorRole Role) bool {
	if !approverRole.IsValid() || !requestorRole.IsValid() {
		return false
	}
	if requestorRole == RoleSuperAdmin {
		return false
	}
	if !approverRole.Outranks(requestorRole) {
		return false
	}
	switch approverRole {
	case RoleSuperAdmin:
		return true
	case RoleAdmin, RoleReportingManager:
		return requestorRole == RoleEmployee
	default:
		return false
	}
}

// IsAutoApproved reports whether entries authored by the role skip the
// pending state entirely.
func IsAutoApproved(requestorRole Role) bool {
	return requestorRole == RoleSuperAdmin
}
