package poll

import (
	"time"

	"go.uber.org/zap"
)

// Summary holds the end-of-run counters. Every skip or failure lands in one
// of them.
type Summary struct {
	URLsDiscovered    int  `json:"urls_discovered"`
	URLsProcessed     int  `json:"urls_processed"`
	ConnectorTimeouts int  `json:"connector_timeouts"`
	ConnectorErrors   int  `json:"connector_errors"`
	RecordsFound      int  `json:"records_found"`
	Invalid           int  `json:"invalid"`
	Duplicates        int  `json:"duplicates"`
	BelowThreshold    int  `json:"below_threshold"`
	Admitted          int  `json:"admitted"`
	Forwarded         int  `json:"forwarded"`
	ForwardFailures   int  `json:"forward_failures"`
	StoreErrors       int  `json:"store_errors"`
	DiscoveryErrors   int  `json:"discovery_errors"`
	BudgetExhausted   bool `json:"budget_exhausted"`

	Elapsed time.Duration `json:"elapsed"`
}

func (s Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("urls_discovered", s.URLsDiscovered),
		zap.Int("urls_processed", s.URLsProcessed),
		zap.Int("connector_timeouts", s.ConnectorTimeouts),
		zap.Int("connector_errors", s.ConnectorErrors),
		zap.Int("records_found", s.RecordsFound),
		zap.Int("invalid", s.Invalid),
		zap.Int("duplicates", s.Duplicates),
		zap.Int("below_threshold", s.BelowThreshold),
		zap.Int("admitted", s.Admitted),
		zap.Int("forwarded", s.Forwarded),
		zap.Int("forward_failures", s.ForwardFailures),
		zap.Int("store_errors", s.StoreErrors),
		zap.Int("discovery_errors", s.DiscoveryErrors),
		zap.Bool("budget_exhausted", s.BudgetExhausted),
		zap.Duration("elapsed", s.Elapsed),
	}
}
