// Package aggregates declares the transactional write boundaries of the learning domain and
// the error codes their implementations return. Implementations live in internal/data/aggregates.
package aggregates
