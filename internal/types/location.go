package types

import "github.com/google/uuid"

// Location is an entry of the global location reference list.
type Location struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Region *string   `json:"region,omitempty"`
}
