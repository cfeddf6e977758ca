package export

import (
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/domain/trade"
)

// Batch file name prefixes
const (
	CustomersFilePrefix = "customers"
	OrdersFilePrefix    = "orders"
)

// BatchFileName names a tabular export: <prefix>_<shop tag>_<yyyyMMdd_HHmm>.<ext>
func BatchFileName(prefix, shopTag string, format printing.Format, at time.Time) string {
	return prefix + "_" + SafeName(shopTag) + "_" + at.Format(FileStampLayout) + "." + format.Extension()
}

// InvoiceFileName names an invoice after its customer and the last six
// characters of the order id, with the id's case preserved
func InvoiceFileName(order *trade.Order) string {
	id := order.ID.String()
	return "Invoice_" + SafeName(order.Customer.Name) + "_" + id[len(id)-6:] + "." + printing.FormatPDF.Extension()
}
