package navigation

import "strings"

// MatchPath reports whether path matches pattern.
//
// A pattern of "*" matches every path. A pattern ending in "/*" matches its
// prefix and anything below it, so "/blog/*" matches "/blog" and
// "/blog/post" but not "/blogger". Any other pattern must equal the path.
// Query strings and fragments on path are ignored.
func MatchPath(pattern, path string) bool {
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}

func isWildcard(pattern string) bool {
	return pattern == "*" || strings.HasSuffix(pattern, "/*")
}
