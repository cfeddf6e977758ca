package persistence

import (
	"testing"

	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortColumns_OrderBy(t *testing.T) {
	tests := []struct {
		name       string
		columns    sortColumns
		filter     shared.Filter
		wantColumn string
		wantDesc   bool
	}{
		{"empty filter is newest first", customerSortColumns, shared.Filter{}, "created_at", true},
		{"whitelisted customer column", customerSortColumns, shared.Filter{OrderBy: "name", OrderDir: "asc"}, "name", false},
		{"direction is case insensitive", customerSortColumns, shared.Filter{OrderBy: " phone ", OrderDir: " ASC "}, "phone", false},
		{"whitelisted order column", orderSortColumns, shared.Filter{OrderBy: "due_date", OrderDir: "desc"}, "due_date", true},
		{"order column not allowed for customers", customerSortColumns, shared.Filter{OrderBy: "due_date"}, "created_at", true},
		{"injection attempt", customerSortColumns, shared.Filter{OrderBy: "name; DROP TABLE customers", OrderDir: "ASC; --"}, "created_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.columns.orderBy(tt.filter)

			require.Len(t, got.Columns, 2)
			assert.Equal(t, tt.wantColumn, got.Columns[0].Column.Name)
			assert.Equal(t, tt.wantDesc, got.Columns[0].Desc)
			assert.Equal(t, "id", got.Columns[1].Column.Name)
			assert.Equal(t, tt.wantDesc, got.Columns[1].Desc)
		})
	}
}
