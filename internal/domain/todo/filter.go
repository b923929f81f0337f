package todo

// Filter holds optional filter criteria for listing todos.
// Zero-value fields mean "no filter" for that dimension.
type Filter struct {
	Completed *bool
}

// CompletedOnly is the filter behind the completed-items listing.
func CompletedOnly() Filter {
	completed := true
	return Filter{Completed: &completed}
}

// Matches reports whether t satisfies every set criterion of the filter.
func (f Filter) Matches(t *Todo) bool {
	if f.Completed != nil && t.IsComplete != *f.Completed {
		return false
	}
	return true
}
