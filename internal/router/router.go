// Package router maps the signed-in identity to the view it may see.
package router

import (
	"strings"

	"github.com/noah-isme/school-portal/internal/models"
)

// View names a portal screen.
type View string

const (
	ViewLogin   View = "LOGIN"
	ViewAdmin   View = "ADMIN"
	ViewTeacher View = "TEACHER"
	ViewStudent View = "STUDENT"
)

// Route paths.
const (
	PathRoot    = "/"
	PathAdmin   = "/admin"
	PathTeacher = "/teacher"
	PathStudent = "/student"
)

var viewPaths = map[View]string{
	ViewLogin:   PathRoot,
	ViewAdmin:   PathAdmin,
	ViewTeacher: PathTeacher,
	ViewStudent: PathStudent,
}

var roleViews = map[models.UserRole]View{
	models.RoleAdmin:   ViewAdmin,
	models.RoleTeacher: ViewTeacher,
	models.RoleStudent: ViewStudent,
}

// Path returns the route of v.
func (v View) Path() string {
	return viewPaths[v]
}

// Resolution is the outcome of navigating to a path.
type Resolution struct {
	Requested string `json:"requested"`
	View      View   `json:"view"`
	Path      string `json:"path"`
	// Redirects lists every path passed through after the requested one.
	Redirects []string `json:"redirects,omitempty"`
}

// Redirected reports whether the requested path was not served directly.
func (r Resolution) Redirected() bool {
	return len(r.Redirects) > 0
}

// CurrentView returns the only view identity may see.
func CurrentView(identity *models.Identity) View {
	if identity == nil {
		return ViewLogin
	}
	if view, ok := roleViews[identity.Role]; ok {
		return view
	}
	return ViewLogin
}

// Resolve navigates to requested. A path the identity may not see redirects
// to the root route, which in turn redirects to the identity's own view.
func Resolve(identity *models.Identity, requested string) Resolution {
	path := normalise(requested)
	allowed := CurrentView(identity)
	res := Resolution{Requested: requested, View: allowed, Path: allowed.Path()}

	if path == allowed.Path() {
		return res
	}
	if path != PathRoot {
		res.Redirects = append(res.Redirects, PathRoot)
	}
	if allowed.Path() != PathRoot {
		res.Redirects = append(res.Redirects, allowed.Path())
	}
	return res
}

func normalise(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return strings.ToLower(path)
}
