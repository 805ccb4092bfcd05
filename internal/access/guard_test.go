package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func loggedIn(role Role) SessionState {
	return SessionState{LoggedIn: true, Role: role}
}

func TestAuthorize_Indeterminate(t *testing.T) {
	decision := Authorize(SessionState{Resolving: true}, RoleEmployee)
	assert.Equal(t, DecisionIndeterminate, decision.Kind)
	assert.False(t, decision.Allowed())
}

func TestAuthorize_NoSessionRedirectsToLogin(t *testing.T) {
	decision := Authorize(SessionState{}, RoleEmployee, RoleManager)
	assert.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, RouteLogin, decision.Target)
}

// Allow iff the session role is in the required set; otherwise redirect to
// that role's own default dashboard, never anywhere else.
func TestAuthorize_RoleMatrix(t *testing.T) {
	requirements := map[string][]Role{
		"employee dashboard": {RoleEmployee},
		"manager dashboard":  {RoleManager, RoleBackupManager},
		"admin dashboard":    {RoleAdministrator},
	}

	knownTargets := map[Route]bool{
		RouteLogin:             true,
		RouteEmployeeDashboard: true,
		RouteManagerDashboard:  true,
		RouteAdminDashboard:    true,
	}

	for name, required := range requirements {
		for _, role := range Roles() {
			decision := Authorize(loggedIn(role), required...)

			inSet := false
			for _, r := range required {
				if r == role {
					inSet = true
				}
			}

			if inSet {
				assert.True(t, decision.Allowed(), "%s should admit %s", name, role)
				continue
			}

			assert.Equal(t, DecisionRedirect, decision.Kind, "%s should redirect %s", name, role)
			assert.Equal(t, DefaultRoute(role), decision.Target)
			assert.True(t, knownTargets[decision.Target], "redirect target must be a known route")
		}
	}
}

func TestAuthorize_BackupManagerSharesManagerDashboard(t *testing.T) {
	decision := Authorize(loggedIn(RoleBackupManager), RoleManager, RoleBackupManager)
	assert.True(t, decision.Allowed())

	// A backup manager on the employee dashboard lands on the shared manager one.
	decision = Authorize(loggedIn(RoleBackupManager), RoleEmployee)
	assert.Equal(t, RouteManagerDashboard, decision.Target)
}

func TestDefaultRoute_UnknownRoleFallsBackToLogin(t *testing.T) {
	assert.Equal(t, RouteLogin, DefaultRoute(Role("Contractor")))
}
