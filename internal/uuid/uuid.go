// uuid simple generator that allows mocking
package uuid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator is an interface for generating UUIDs
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements the Generator interface using Google's UUID package
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// SequentialGenerator produces predictable ids for tests ("id-1", "id-2", ...)
type SequentialGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialGenerator creates a generator with the given prefix
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// New returns the next sequential id
func (g *SequentialGenerator) New() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}
