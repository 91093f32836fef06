package repository

// TicketFilter narrows a ticket query. Scoping fields are applied with AND:
// a nil PropertyIDs means "no property restriction", an empty non-nil slice
// matches nothing.
type TicketFilter struct {
	PropertyIDs []string
	AssignedTo  string

	Q        string
	Status   string
	Priority string
	Limit    int
	Offset   int
	Sort     string // created_at, updated_at, priority
	Order    string // asc|desc
}

// Normalize clamps paging to the same bounds every backend applies.
func (f TicketFilter) Normalize() TicketFilter {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// MatchesNothing reports whether the scope excludes every ticket.
func (f TicketFilter) MatchesNothing() bool {
	return f.PropertyIDs != nil && len(f.PropertyIDs) == 0
}
