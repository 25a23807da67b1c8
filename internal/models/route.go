package models

// AppRoute is a navigable view of the admin console
type AppRoute string

const (
	RouteDashboard AppRoute = "/"
	RouteLogin     AppRoute = "/login"
	RouteProjects  AppRoute = "/projects"
	RouteBlogs     AppRoute = "/blogs"
	RouteTeam      AppRoute = "/team"
	RouteCareers   AppRoute = "/careers"
	RouteServices  AppRoute = "/services"
)

// ProtectedRoutes are the views that require an authenticated session
var ProtectedRoutes = []AppRoute{
	RouteDashboard,
	RouteProjects,
	RouteBlogs,
	RouteTeam,
	RouteCareers,
	RouteServices,
}
