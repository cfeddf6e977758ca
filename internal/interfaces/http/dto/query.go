package dto

// SearchQuery is the query string of the list and export endpoints. Status
// is checked by the order_status validator registered in middleware.
type SearchQuery struct {
	Search string `form:"search" binding:"max=100"`
	Status string `form:"status" binding:"order_status"`
	Format string `form:"format" binding:"omitempty,oneof=pdf xlsx"`
}
