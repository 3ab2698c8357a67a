package enum

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusVoided    SaleStatus = "voided"
	SaleStatusReturned  SaleStatus = "returned"
)
