package domain

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// PageLimit resolves an optional limit: unset or non-positive means the default, capped at MaxPageLimit.
func PageLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return DefaultPageLimit
	}
	return min(*limit, MaxPageLimit)
}

func PageOffset(offset *int) int {
	if offset == nil || *offset < 0 {
		return 0
	}
	return *offset
}

// Descending resolves an optional order flag. Timelines read newest first unless told otherwise.
func Descending(orderDesc *bool) bool {
	return orderDesc == nil || *orderDesc
}
