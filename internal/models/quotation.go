package models

import (
	"encoding/json"
	"time"
)

// Quotation is a saved quotation document. The line items are persisted as a
// JSON blob alongside scalar rollups, matching the shape the client submits.
type Quotation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	DocNumber       string    `gorm:"size:64;not null;uniqueIndex" json:"doc_number"`
	CustomerCompany string    `gorm:"size:255" json:"customer_company,omitempty"`
	CustomerName    string    `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerContact string    `gorm:"size:255" json:"customer_contact,omitempty"`
	CustomerNotes   string    `gorm:"type:text" json:"customer_notes,omitempty"`
	Products        string    `gorm:"type:text;not null" json:"-"`
	TotalQty        int       `json:"total_qty"`
	TotalUsd        float64   `json:"total_usd"`
	IPAddress       string    `gorm:"size:64" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProductsJSON exposes the stored blob as raw JSON for detail responses.
func (q *Quotation) ProductsJSON() json.RawMessage {
	if q.Products == "" {
		return json.RawMessage("[]")
	}
	return json.RawMessage(q.Products)
}

// QuotationSummary is the list-view projection: no line-item detail.
type QuotationSummary struct {
	ID              uint      `json:"id"`
	DocNumber       string    `json:"doc_number"`
	CustomerCompany string    `json:"customer_company,omitempty"`
	CustomerName    string    `json:"customer_name,omitempty"`
	TotalQty        int       `json:"total_qty"`
	TotalUsd        float64   `json:"total_usd"`
	CreatedAt       time.Time `json:"created_at"`
}

// Summary projects a quotation down to its list row.
func (q *Quotation) Summary() QuotationSummary {
	return QuotationSummary{
		ID:              q.ID,
		DocNumber:       q.DocNumber,
		CustomerCompany: q.CustomerCompany,
		CustomerName:    q.CustomerName,
		TotalQty:        q.TotalQty,
		TotalUsd:        q.TotalUsd,
		CreatedAt:       q.CreatedAt,
	}
}
