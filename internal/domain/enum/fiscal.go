package enum

// QueueStatus represents the state of an offline queue entry.
// Entries are never deleted; failed entries stay eligible for later sweeps.
type QueueStatus string

const (
	QueueStatusPending     QueueStatus = "pending"
	QueueStatusTransmitted QueueStatus = "transmitted"
	QueueStatusFailed      QueueStatus = "failed"
)

// FiscalStatus is the informational outcome of a fiscal pipeline run.
// It is attached to the sale's processing record and never vetoes the sale.
type FiscalStatus string

const (
	FiscalStatusSkipped            FiscalStatus = "skipped"
	FiscalStatusQueued             FiscalStatus = "queued"
	FiscalStatusTransmitted        FiscalStatus = "transmitted"
	FiscalStatusQueuedAfterFailure FiscalStatus = "queued_after_failure"
	FiscalStatusError              FiscalStatus = "error"
)
