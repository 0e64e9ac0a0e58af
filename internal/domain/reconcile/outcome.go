package reconcile

// ---------------------------------------------------------------------------
// Per-Order Outcome
// ---------------------------------------------------------------------------

// OutcomeStatus is the terminal state of reconciling one order.
type OutcomeStatus string

const (
	// OutcomeCreated indicates a downstream order was created
	OutcomeCreated OutcomeStatus = "CREATED"
	// OutcomeSkipped indicates the order already exists downstream
	OutcomeSkipped OutcomeStatus = "SKIPPED"
	// OutcomeFailed indicates the order could not be reconciled
	OutcomeFailed OutcomeStatus = "FAILED"
)

// IsValid returns true if the status is valid.
func (s OutcomeStatus) IsValid() bool {
	switch s {
	case OutcomeCreated, OutcomeSkipped, OutcomeFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of OutcomeStatus.
func (s OutcomeStatus) String() string {
	return string(s)
}

// Skip and failure reasons recorded on outcomes. Failures never cross order
// boundaries; they are aggregated into the run summary instead.
const (
	ReasonAlreadyImported    = "already imported"
	ReasonCustomerResolution = "customer resolution failed"
	ReasonNoValidLines       = "no valid lines"
	ReasonOrderCreation      = "order creation failed"
	ReasonUnexpected         = "unexpected failure"
)

// Outcome is the result of reconciling a single order.
type Outcome struct {
	// OriginTag is the de-duplication key of the order
	OriginTag string
	// StoreOrderID is the upstream order ID
	StoreOrderID int64
	// Status is the terminal state
	Status OutcomeStatus
	// Reason explains a skip or failure; empty for created orders
	Reason string
	// DownstreamID is the created sales order ID when Status is CREATED
	DownstreamID int64
}

// Created builds a created outcome for the order.
func Created(order *StoreOrder, downstreamID int64) Outcome {
	return Outcome{
		OriginTag:    order.OriginTag(),
		StoreOrderID: order.ID,
		Status:       OutcomeCreated,
		DownstreamID: downstreamID,
	}
}

// Skipped builds a skipped outcome for the order.
func Skipped(order *StoreOrder, reason string) Outcome {
	return Outcome{
		OriginTag:    order.OriginTag(),
		StoreOrderID: order.ID,
		Status:       OutcomeSkipped,
		Reason:       reason,
	}
}

// Failed builds a failed outcome for the order.
func Failed(order *StoreOrder, reason string) Outcome {
	return Outcome{
		OriginTag:    order.OriginTag(),
		StoreOrderID: order.ID,
		Status:       OutcomeFailed,
		Reason:       reason,
	}
}

// ---------------------------------------------------------------------------
// Run Summary
// ---------------------------------------------------------------------------

// RunSummary aggregates the outcomes of one reconciliation run. A run
// completes normally even when individual orders fail; only a fetch failure
// aborts the whole run.
type RunSummary struct {
	// Fetched is the number of orders returned by the upstream page fetch
	Fetched int
	// Created is the number of downstream orders created
	Created int
	// Skipped is the number of orders already present downstream
	Skipped int
	// Failed is the number of orders that could not be reconciled
	Failed int
	// Outcomes holds the per-order outcomes in processing order
	Outcomes []Outcome
}

// Record adds one outcome to the summary and bumps the matching counter.
func (s *RunSummary) Record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case OutcomeCreated:
		s.Created++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
