package handler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/application/export"
	"github.com/nizy/tailor/internal/application/partner"
	"github.com/nizy/tailor/internal/application/trade"
	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/interfaces/http/dto"
)

// ExportHandler serves customer and order exports and single-order invoices.
// Exports contain exactly the records the list screen shows for the same
// search and status.
type ExportHandler struct {
	BaseHandler
	exports         *export.Service
	customerService *partner.CustomerService
	orderService    *trade.OrderService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exports *export.Service, customers *partner.CustomerService, orders *trade.OrderService) *ExportHandler {
	return &ExportHandler{
		exports:         exports,
		customerService: customers,
		orderService:    orders,
	}
}

// Customers exports the filtered customer list as PDF or XLSX
func (h *ExportHandler) Customers(c *gin.Context) {
	query, format, ok := h.bindQuery(c)
	if !ok {
		return
	}

	customers, err := h.customerService.Search(c.Request.Context(), query.Search)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := h.exports.ExportCustomers(c.Request.Context(), customers, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.send(c, doc, "attachment")
}

// Orders exports the filtered billing list as PDF or XLSX
func (h *ExportHandler) Orders(c *gin.Context) {
	query, format, ok := h.bindQuery(c)
	if !ok {
		return
	}

	orders, err := h.orderService.Search(c.Request.Context(), trade.OrderListFilter{
		Search: query.Search,
		Status: query.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := h.exports.ExportOrders(c.Request.Context(), orders, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.send(c, doc, "attachment")
}

// Invoice renders the printable invoice of one order
func (h *ExportHandler) Invoice(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Find(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := h.exports.Invoice(c.Request.Context(), order)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.send(c, doc, "inline")
}

func (h *ExportHandler) bindQuery(c *gin.Context) (dto.SearchQuery, printing.Format, bool) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return query, "", false
	}
	format, ok := printing.ParseFormat(query.Format)
	if !ok {
		h.BadRequest(c, "format must be pdf or xlsx")
		return query, "", false
	}
	return query, format, true
}

func (h *ExportHandler) send(c *gin.Context, doc *printing.Document, disposition string) {
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": doc.FileName}))
	c.Header("Content-Length", strconv.Itoa(doc.Size()))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
