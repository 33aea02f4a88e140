package logging

import (
	"encoding/json"
	"log"
	"time"
)

// Fields is one structured log event. Soft-fail paths in the checkout flow
// must emit one of these so degradations are visible in the log stream.
type Fields struct {
	Component string `json:"component"`
	Event     string `json:"event"`
	InvoiceID uint   `json:"invoice_id,omitempty"`
	ProductID uint   `json:"product_id,omitempty"`
	Method    string `json:"method,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func Log(fields Fields) {
	payload := map[string]any{
		"component": fields.Component,
		"event":     fields.Event,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if fields.InvoiceID != 0 {
		payload["invoice_id"] = fields.InvoiceID
	}
	if fields.ProductID != 0 {
		payload["product_id"] = fields.ProductID
	}
	if fields.Method != "" {
		payload["method"] = fields.Method
	}
	if fields.Message != "" {
		payload["message"] = fields.Message
	}
	if fields.Error != "" {
		payload["error"] = fields.Error
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"component\":%q,\"event\":\"log_error\",\"error\":%q}", fields.Component, err.Error())
		return
	}
	log.Print(string(data))
}
