// Package session decides where a visitor may go from what is known about them.
package session

import "fmt"

type Area string

const (
	AreaPublic     Area = "public"
	AreaAuth       Area = "auth"
	AreaOnboarding Area = "onboarding"
	AreaApp        Area = "app"
	AreaAdmin      Area = "admin"
)

const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin/login"
	OnboardingPath = "/onboarding"
	DashboardPath  = "/dashboard"
)

type UserInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Profile struct {
	Onboarded      bool  `json:"onboarded"`
	NeighborhoodID *uint `json:"neighborhoodId"`
}

type AdminInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// State is the result of three independent lookups. Any of them may be missing.
type State struct {
	User    *UserInfo  `json:"user"`
	Profile *Profile   `json:"profile"`
	Admin   *AdminInfo `json:"admin"`
}

func (s State) onboarded() bool {
	return s.Profile != nil && s.Profile.Onboarded
}

type Decision struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func allow() Decision { return Decision{Allow: true} }

func redirect(to, reason string) Decision {
	return Decision{Redirect: to, Reason: reason}
}

func ParseArea(raw string) (Area, error) {
	switch a := Area(raw); a {
	case AreaPublic, AreaAuth, AreaOnboarding, AreaApp, AreaAdmin:
		return a, nil
	}
	return "", fmt.Errorf("unknown area %q", raw)
}

// Resolve decides whether state may enter area, and where to send it otherwise.
func Resolve(area Area, state State) Decision {
	switch area {
	case AreaAuth:
		if state.User == nil {
			return allow()
		}
		if state.onboarded() {
			return redirect(DashboardPath, "already signed in")
		}
		return redirect(OnboardingPath, "already signed in")
	case AreaOnboarding:
		if state.User == nil {
			return redirect(LoginPath, "unauthenticated")
		}
		if state.onboarded() {
			return redirect(DashboardPath, "already onboarded")
		}
		return allow()
	case AreaApp:
		if state.User == nil {
			return redirect(LoginPath, "unauthenticated")
		}
		if !state.onboarded() {
			return redirect(OnboardingPath, "onboarding incomplete")
		}
		return allow()
	case AreaAdmin:
		if state.Admin == nil {
			return redirect(AdminLoginPath, "admin access required")
		}
		return allow()
	default:
		return allow()
	}
}
