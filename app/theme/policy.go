package theme

import "strings"

// DefaultExclude lists the authentication pages rendered without the theme controller.
var DefaultExclude = []string{"/login", "/signup", "/logout"}

// IncludePolicy decides which pages get the theme controller.
type IncludePolicy struct {
	Exclude []string // path prefixes, matched on segment boundary
}

// Applies reports whether the page at path should run the controller.
func (p IncludePolicy) Applies(path string) bool {
	for _, ex := range p.Exclude {
		ex = strings.TrimSuffix(ex, "/")
		if ex == "" {
			continue
		}
		if path == ex || strings.HasPrefix(path, ex+"/") {
			return false
		}
	}
	return true
}
