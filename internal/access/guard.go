package access

// Route identifies a navigable surface of the client.
type Route string

// Known routes. These are the only values the guard ever redirects to.
const (
	RouteLogin             Route = "/login"
	RouteEmployeeDashboard Route = "/dashboard"
	RouteManagerDashboard  Route = "/manager-dashboard"
	RouteAdminDashboard    Route = "/admin-dashboard"
)

// DefaultRoute maps a role to its own landing dashboard. Unknown roles fall
// back to the login route.
func DefaultRoute(role Role) Route {
	switch role {
	case RoleEmployee:
		return RouteEmployeeDashboard
	case RoleManager, RoleBackupManager:
		return RouteManagerDashboard
	case RoleAdministrator:
		return RouteAdminDashboard
	default:
		return RouteLogin
	}
}

// DecisionKind classifies a guard decision.
type DecisionKind int

const (
	// DecisionIndeterminate means session resolution is still pending; the
	// caller shows a loading state and renders nothing protected.
	DecisionIndeterminate DecisionKind = iota
	// DecisionAllow means the caller may render the protected surface.
	DecisionAllow
	// DecisionRedirect means the caller must navigate to Target instead.
	DecisionRedirect
)

// Decision is the outcome of a route authorization check.
type Decision struct {
	Kind   DecisionKind
	Target Route
}

// Allowed is a convenience accessor for Kind == DecisionAllow.
func (d Decision) Allowed() bool {
	return d.Kind == DecisionAllow
}

// SessionState is the guard's view of the current session. It deliberately
// carries values rather than the session store itself so the guard stays a
// pure function.
type SessionState struct {
	// Resolving is true while the stored credential has not been examined yet.
	Resolving bool
	// LoggedIn is true when a valid, unexpired session exists.
	LoggedIn bool
	// Role is the session's role; meaningful only when LoggedIn.
	Role Role
}

// Authorize decides whether the current session may enter a route that
// requires one of the given roles.
//
// While the session is still resolving the decision is indeterminate. With no
// session the user is sent to login. A logged-in user whose role is not in
// the required set is sent to their own default dashboard, never to an
// arbitrary route. This is advisory UX routing only; the server re-validates
// every operation regardless of what the guard decided.
func Authorize(state SessionState, required ...Role) Decision {
	if state.Resolving {
		return Decision{Kind: DecisionIndeterminate}
	}

	if !state.LoggedIn {
		return Decision{Kind: DecisionRedirect, Target: RouteLogin}
	}

	for _, role := range required {
		if state.Role == role {
			return Decision{Kind: DecisionAllow}
		}
	}

	return Decision{Kind: DecisionRedirect, Target: DefaultRoute(state.Role)}
}
