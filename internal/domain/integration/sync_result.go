package integration

import (
	"sync"
	"time"
)

// SyncStatus represents the synchronization status
type SyncStatus string

const (
	// SyncStatusPending indicates sync is pending
	SyncStatusPending SyncStatus = "PENDING"
	// SyncStatusInProgress indicates sync is in progress
	SyncStatusInProgress SyncStatus = "IN_PROGRESS"
	// SyncStatusSuccess indicates every SKU synchronized
	SyncStatusSuccess SyncStatus = "SUCCESS"
	// SyncStatusPartial indicates some SKUs failed
	SyncStatusPartial SyncStatus = "PARTIAL"
	// SyncStatusFailed indicates every SKU failed
	SyncStatusFailed SyncStatus = "FAILED"
)

// IsValid returns true if the status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusPending, SyncStatusInProgress, SyncStatusSuccess, SyncStatusPartial, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncStatus
func (s SyncStatus) String() string {
	return string(s)
}

// SyncFailure is one SKU that did not produce a product
type SyncFailure struct {
	SKU        string     `json:"sku"`
	ErrorClass ErrorClass `json:"error_class"`
	Message    string     `json:"message"`
}

// SyncedProduct is one SKU that produced a product
type SyncedProduct struct {
	SKU       string `json:"sku"`
	ProductID uint   `json:"product_id"`
}

// BatchResult aggregates per-SKU outcomes. Safe for concurrent Record calls.
type BatchResult struct {
	mu sync.Mutex

	RunID        string          `json:"run_id"`
	Status       SyncStatus      `json:"status"`
	TotalCount   int             `json:"total_count"`
	SuccessCount int             `json:"success_count"`
	FailedCount  int             `json:"failed_count"`
	Synced       []SyncedProduct `json:"synced,omitempty"`
	FailedItems  []SyncFailure   `json:"failed_items,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
}

// NewBatchResult starts a result for total SKUs
func NewBatchResult(runID string, total int) *BatchResult {
	return &BatchResult{
		RunID:      runID,
		Status:     SyncStatusInProgress,
		TotalCount: total,
		StartedAt:  time.Now(),
	}
}

// Record adds the outcome of one SKU
func (r *BatchResult) Record(sku string, productID uint, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err == nil && productID != 0 {
		r.SuccessCount++
		r.Synced = append(r.Synced, SyncedProduct{SKU: sku, ProductID: productID})
		return
	}
	r.FailedCount++
	failure := SyncFailure{SKU: sku, ErrorClass: Classify(err)}
	if err != nil {
		failure.Message = err.Error()
	}
	r.FailedItems = append(r.FailedItems, failure)
}

// Finish computes the final status
func (r *BatchResult) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.FinishedAt = time.Now()
	switch {
	case r.FailedCount == 0:
		r.Status = SyncStatusSuccess
	case r.SuccessCount == 0:
		r.Status = SyncStatusFailed
	default:
		r.Status = SyncStatusPartial
	}
}
