package access

import (
	"fmt"

	"github.com/requestdesk/requestdesk/internal/errors"
)

// Role is the closed set of account roles known to the workflow.
//
// The enumeration is not hierarchical: Manager and BackupManager are peers
// with identical transition rights, and Administrator holds a disjoint right
// set (policy configuration, account provisioning, visibility into all
// requests) rather than a superset of Manager's.
type Role string

// Account roles, wire-compatible with the backend's role strings.
const (
	RoleEmployee      Role = "Employee"
	RoleManager       Role = "Manager"
	RoleBackupManager Role = "BackupManager"
	RoleAdministrator Role = "Administrator"
)

// Roles lists every known role, in display order.
func Roles() []Role {
	return []Role{RoleEmployee, RoleManager, RoleBackupManager, RoleAdministrator}
}

// ParseRole validates a role string from an external source (a decoded
// credential, a flag value). Anything outside the closed set is rejected.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleBackupManager, RoleAdministrator:
		return Role(s), nil
	default:
		return "", errors.New(errors.ErrCodeRoleUnknown, fmt.Sprintf("unknown role %q", s)).
			WithSuggestion("Expected one of: Employee, Manager, BackupManager, Administrator")
	}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsHandler reports whether the role may action (approve/reject) requests.
// Manager and BackupManager are interchangeable here; the backend treats
// them identically and so do we.
func (r Role) IsHandler() bool {
	switch r {
	case RoleManager, RoleBackupManager, RoleAdministrator:
		return true
	default:
		return false
	}
}

// IsAdministrator reports whether the role may use the admin surface
// (SLA configuration, account provisioning).
func (r Role) IsAdministrator() bool {
	return r == RoleAdministrator
}
