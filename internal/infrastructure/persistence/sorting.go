package persistence

import (
	"strings"

	"github.com/nizy/tailor/internal/domain/shared"
	"gorm.io/gorm/clause"
)

const defaultSortColumn = "created_at"

// sortColumns whitelists the columns a listing may be ordered by. Filter
// values never reach SQL unless they are listed here.
type sortColumns map[string]bool

var (
	customerSortColumns = sortColumns{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"phone":      true,
	}
	orderSortColumns = sortColumns{
		"created_at":    true,
		"updated_at":    true,
		"due_date":      true,
		"status":        true,
		"customer_name": true,
	}
)

// orderBy turns a filter into a deterministic ORDER BY. Unknown columns sort
// by creation time, anything but "asc" sorts descending, and the id breaks
// ties between rows saved in the same instant.
func (s sortColumns) orderBy(f shared.Filter) clause.OrderBy {
	column := strings.TrimSpace(f.OrderBy)
	if !s[column] {
		column = defaultSortColumn
	}
	desc := !strings.EqualFold(strings.TrimSpace(f.OrderDir), "asc")

	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: column}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}}
}
