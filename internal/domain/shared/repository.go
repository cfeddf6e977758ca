package shared

// Filter orders a collection load. There is no paging or predicate: stores
// hand back every record and the services search and filter in memory.
type Filter struct {
	OrderBy  string
	OrderDir string
}

// DefaultFilter lists newest first
func DefaultFilter() Filter {
	return Filter{OrderBy: "created_at", OrderDir: "desc"}
}
