// Package reconcile contains the core types and ports for reconciling store
// orders from the upstream commerce platform into the downstream ERP.
// Adapters for the concrete platforms live in the infrastructure layer.
package reconcile
