package redis

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based record ids. ULIDs sort
// lexicographically by creation time, which is what gives snapshots their
// stable append order.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
