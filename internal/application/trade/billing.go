package trade

import (
	"strings"

	"github.com/nizy/tailor/internal/domain/trade"
)

// StatusAll selects every lifecycle state in the billing filter
const StatusAll = "All"

// FilterOrders applies the billing search box and status tab to a
// materialized order collection. The search term matches the customer name
// ignoring case, or a substring of the phone.
func FilterOrders(orders []trade.Order, filter OrderListFilter) []trade.Order {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.TrimSpace(filter.Status)

	matched := make([]trade.Order, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		if status != "" && status != StatusAll && o.Status.String() != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(o.Customer.Name), term) &&
			!strings.Contains(o.Customer.Phone, term) {
			continue
		}
		matched = append(matched, *o)
	}
	return matched
}
