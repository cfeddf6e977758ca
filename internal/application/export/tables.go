package export

import (
	"strconv"
	"time"

	"github.com/nizy/tailor/internal/domain/partner"
	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/domain/trade"
)

// Column sets shared by the spreadsheet and the PDF report
var (
	CustomerColumns = []string{"Name", "Reference", "Phone", "Measurements Summary"}
	OrderColumns    = []string{"Order ID", "Customer", "Phone", "Due Date", "Status", "Amount", "Balance"}
)

// CustomerTable lays out one row per customer in the given order
func CustomerTable(customers []partner.Customer, generatedAt time.Time) printing.Table {
	rows := make([][]string, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		rows = append(rows, []string{
			c.Name,
			orDash(c.ReferenceName),
			c.Phone,
			c.Measurements.Summary(),
		})
	}
	return printing.Table{
		Title:       printing.DocTypeCustomerList.DisplayName(),
		GeneratedOn: GeneratedOn(generatedAt),
		Columns:     CustomerColumns,
		Rows:        rows,
	}
}

// OrderTable lays out one row per order in the given order. Amount and
// balance are recomputed from each order's lines.
func OrderTable(orders []trade.Order, generatedAt time.Time) printing.Table {
	rows := make([][]string, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		totals := o.Totals()
		rows = append(rows, []string{
			o.Reference(),
			o.Customer.Name,
			o.Customer.Phone,
			FormatDate(o.DueDate),
			o.Status.String(),
			FormatMoney(totals.Total),
			FormatMoney(totals.Balance),
		})
	}
	return printing.Table{
		Title:       printing.DocTypeOrderSummary.DisplayName(),
		GeneratedOn: GeneratedOn(generatedAt),
		Columns:     OrderColumns,
		Rows:        rows,
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
