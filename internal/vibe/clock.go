package vibe

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// CodeGenerator produces one-time numeric challenge codes.
type CodeGenerator interface {
	NewCode() string
}

// RandomCodeGenerator produces 6-digit codes from crypto/rand.
type RandomCodeGenerator struct{}

func (RandomCodeGenerator) NewCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; there is
		// no meaningful fallback for a security code.
		panic(fmt.Sprintf("generating challenge code: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64())
}
