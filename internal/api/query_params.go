package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"handymandy-backend-go/internal/db"
)

// The UI's sentinel filter values. They are translated to the absent filter
// at this boundary and never travel further into the system.
const (
	allCategories = "All Categories"
	allLocations  = "All Locations"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// filterParam reads a query parameter as an optional filter: empty or the
// sentinel both mean "no restriction".
func filterParam(c *gin.Context, name, sentinel string) db.FilterValue {
	v := c.Query(name)
	if v == "" || v == sentinel {
		return db.AnyValue()
	}
	return db.Value(v)
}

// sortParam maps the UI's sort labels onto gateway sort options. Anything
// unrecognized leaves the store-defined order.
func sortParam(c *gin.Context) db.SortOption {
	switch c.Query("sort") {
	case "Sort by Newest", "newest":
		return db.SortNewestFirst
	case "Sort by Oldest", "oldest":
		return db.SortOldestFirst
	}
	return db.SortUnspecified
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page = defaultPage
	pageSize = defaultPageSize
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("pageSize")); err == nil && v >= 1 {
		pageSize = v
	}
	return page, pageSize
}

// userIDFrom returns the authenticated UID set by the auth middleware.
func userIDFrom(c *gin.Context) (string, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	uid, ok := raw.(string)
	return uid, ok && uid != ""
}
