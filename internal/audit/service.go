package audit

import (
	"encoding/json"
	"fmt"

	"gelato-pos/internal/database"
	"gelato-pos/internal/models"
)

type RecordOptions struct {
	EmployeeID   uint
	EmployeeName string
	EntityType   string
	EntityID     uint
	Action       models.AuditAction
	Description  string
	Before       any
	After        any
}

// Record writes one audit row. Callers treat a failure as non-blocking: the
// error is logged, never propagated into the request outcome.
func Record(opts RecordOptions) error {
	// jsonb columns need the literal "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		EmployeeID:   opts.EmployeeID,
		EmployeeName: opts.EmployeeName,
		EntityType:   opts.EntityType,
		EntityID:     opts.EntityID,
		Action:       opts.Action,
		Description:  opts.Description,
		BeforeData:   beforeStr,
		AfterData:    afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log could not be written: %w", err)
	}

	return nil
}
