package dto

import (
	"strings"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
)

// SyncProductRequest is the optional body of POST /sync/products/:sku
type SyncProductRequest struct {
	Currency string `json:"currency" binding:"omitempty,len=3,alpha"`
}

// SyncProductResponse reports the local product a SKU landed on
type SyncProductResponse struct {
	SKU       string `json:"sku"`
	ProductID uint   `json:"product_id"`
}

// BatchSyncRequest is the body of POST /sync/products.
// SKUs may also arrive space separated in Arr, the same shape the import command accepts.
type BatchSyncRequest struct {
	SKUs     []string `json:"skus" binding:"omitempty,max=1000,dive,required,max=64"`
	Arr      string   `json:"arr" binding:"omitempty,max=65536"`
	Currency string   `json:"currency" binding:"omitempty,len=3,alpha"`
	Async    bool     `json:"async"`
}

// AllSKUs merges SKUs and Arr, trimming blanks and dropping repeats
func (r BatchSyncRequest) AllSKUs() []string {
	merged := make([]string, 0, len(r.SKUs))
	seen := make(map[string]struct{}, len(r.SKUs))
	add := func(sku string) {
		sku = strings.TrimSpace(sku)
		if sku == "" {
			return
		}
		if _, ok := seen[sku]; ok {
			return
		}
		seen[sku] = struct{}{}
		merged = append(merged, sku)
	}
	for _, sku := range r.SKUs {
		add(sku)
	}
	for _, sku := range integrationapp.SplitSKUs(r.Arr) {
		add(sku)
	}
	return merged
}

// EnqueueResponse reports SKUs handed to the job queue
type EnqueueResponse struct {
	Queued int    `json:"queued"`
	Topic  string `json:"topic,omitempty"`
}

// CategorySyncRequest is the optional body of POST /sync/categories
type CategorySyncRequest struct {
	Vocabulary string `json:"vocabulary" binding:"omitempty,max=100"`
}

// ProductTypeSyncResponse counts product types created from attribute sets
type ProductTypeSyncResponse struct {
	Created int `json:"created"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}
