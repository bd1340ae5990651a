// Package guard decides whether the current session may open a back-office
// view. It mirrors the server's role checks for navigation only; the server
// re-checks every request.
package guard

import (
	"strings"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// View names a navigable screen by its route pattern.
type View string

const (
	ViewHome     View = "/"
	ViewProducts View = "/products"
	ViewLogin    View = "/login"
	ViewRegister View = "/register"
	ViewLogout   View = "/logout"
	ViewUsers    View = "/users"
	ViewAddUser  View = "/users/add"
	ViewUser     View = "/users/:id"
	ViewEditUser View = "/users/:id/edit"
)

type access int

const (
	accessPublic access = iota
	accessGuestOnly
	accessAuthenticated
	accessAdminOnly
)

var views = map[View]access{
	ViewHome:     accessPublic,
	ViewProducts: accessPublic,
	ViewLogin:    accessGuestOnly,
	ViewRegister: accessGuestOnly,
	ViewLogout:   accessAuthenticated,
	ViewUsers:    accessAdminOnly,
	ViewAddUser:  accessAdminOnly,
	ViewUser:     accessAdminOnly,
	ViewEditUser: accessAdminOnly,
}

// Decision is the outcome of a navigation check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectUnauthorized
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decide applies the access rule of view. Views it does not know are treated
// as admin-only.
func Decide(view View, loggedIn bool, roleID int) Decision {
	rule, ok := views[view]
	if !ok {
		rule = accessAdminOnly
	}

	switch rule {
	case accessPublic:
		return Allow
	case accessGuestOnly:
		if loggedIn {
			return RedirectHome
		}
		return Allow
	case accessAuthenticated:
		if !loggedIn {
			return RedirectHome
		}
		return Allow
	default:
		if !loggedIn {
			return RedirectLogin
		}
		if !domain.IsAdmin(roleID) {
			return RedirectUnauthorized
		}
		return Allow
	}
}

// Resolve maps a concrete path such as /users/42/edit to its view. Query
// strings and trailing slashes are ignored.
func Resolve(path string) (View, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return ViewHome, true
	}

	segs := strings.Split(path, "/")
	for _, s := range segs {
		if s == "" {
			return "", false
		}
	}

	switch {
	case len(segs) == 1:
		v := View("/" + segs[0])
		_, ok := views[v]
		return v, ok
	case segs[0] != "users":
		return "", false
	case len(segs) == 2 && segs[1] == "add":
		return ViewAddUser, true
	case len(segs) == 2:
		return ViewUser, true
	case len(segs) == 3 && segs[2] == "edit":
		return ViewEditUser, true
	}
	return "", false
}

// Check resolves path and decides on it in one step.
func Check(path string, loggedIn bool, roleID int) (View, Decision) {
	view, _ := Resolve(path)
	return view, Decide(view, loggedIn, roleID)
}

// Target is where a decision sends the user. Allow has no target.
func Target(d Decision) string {
	switch d {
	case RedirectLogin:
		return string(ViewLogin)
	case RedirectUnauthorized:
		return string(ViewProducts) + "?unauthorized=true"
	case RedirectHome:
		return string(ViewProducts)
	default:
		return ""
	}
}
