package model

import "time"

// Exception records an operational fault for auditing and monitoring.
// The background execution path persists one for every failure that the
// client was never able to see, since the request was acknowledged before
// the work ran.
type Exception struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Service string `gorm:"size:100;index" json:"service"` // e.g. "order_engine"
	Module  string `gorm:"size:100;index" json:"module"`  // e.g. "worker"
	Method  string `gorm:"size:100" json:"method"`        // e.g. "Process"

	Message string `gorm:"type:text" json:"message"`
	Stack   string `gorm:"type:text" json:"stack"`

	Level string `gorm:"size:20;index" json:"level"` // debug | info | warn | error | fatal

	// Extra context stored as JSON (optional)
	Context string `gorm:"type:text" json:"context,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Exception) TableName() string {
	return "exceptions"
}
