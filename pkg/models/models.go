// Package models holds the wire types exchanged with the calculation service.
package models

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 {
	return &v
}
