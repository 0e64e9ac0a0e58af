package reconcile

import "errors"

var (
	// Upstream source errors
	ErrSourceUnavailable   = errors.New("reconcile: order source temporarily unavailable")
	ErrSourceRequestFailed = errors.New("reconcile: order source request failed")
	ErrSourceInvalidPage   = errors.New("reconcile: invalid page size")

	// Downstream gateway errors
	ErrGatewayUnavailable     = errors.New("reconcile: erp gateway temporarily unavailable")
	ErrGatewayRequestFailed   = errors.New("reconcile: erp gateway request failed")
	ErrGatewayErrorPayload    = errors.New("reconcile: erp gateway returned error payload")
	ErrGatewayInvalidResponse = errors.New("reconcile: invalid erp gateway response")

	// Run guard errors
	ErrRunInProgress = errors.New("reconcile: a reconciliation run is already in progress")

	// Record errors
	ErrRecordNotFound = errors.New("reconcile: sync record not found")
)
