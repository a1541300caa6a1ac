package deprecation

var (
	deprecatedKeys = map[string]bool{
		// renamed to api_url
		"base_url": true,
		// renamed to refresh_interval_seconds
		"refresh_seconds": true,
	}
)

// Deprecated returns true if the key is deprecated
func Deprecated(k string) bool {
	if _, ok := deprecatedKeys[k]; ok {
		return deprecatedKeys[k]
	}
	return false
}
