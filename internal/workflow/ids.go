package workflow

import "github.com/google/uuid"

// IDGenerator produces opaque unique identifiers for new entities.
// Injectable so tests can use a deterministic sequence.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production generator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
