package nav

var (
	authRequired  = boolPtr(true)
	anonymousOnly = boolPtr(false)
)

func boolPtr(v bool) *bool { return &v }

// Routes is the application route table. Unset RequiresAuth means the page
// is reachable by anyone, signed in or not.
func Routes() []Route {
	return []Route{
		{Path: "/", Name: "home"},
		{Path: "/requests", Name: "requests"},
		{Path: "/services", Name: "services"},
		{Path: "/service-request", Name: "serviceRequest", RequiresAuth: authRequired},
		{Path: "/my-requests", Name: "myRequests", RequiresAuth: authRequired},
		{Path: "/my-services", Name: "myServices", RequiresAuth: authRequired},
		{Path: "/profile", Name: "profile", RequiresAuth: authRequired},
		{Path: "/sign-in", Name: "signIn", RequiresAuth: anonymousOnly},
		{Path: "/register", Name: "register", RequiresAuth: anonymousOnly},
	}
}
