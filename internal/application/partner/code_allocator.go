package partner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/drump2112/SWP-sub001/internal/domain/partner"
	"github.com/drump2112/SWP-sub001/internal/domain/shared"
)

// maxCodeAttempts bounds the collision probe before giving up
const maxCodeAttempts = 100

// CodeAllocator hands out unique customer codes. Implementations probe
// for collisions optimistically; the unique constraint on the code
// column remains the final guard.
type CodeAllocator interface {
	// Next allocates the next free code
	Next(ctx context.Context) (string, error)

	// NextSkipping allocates the next free code while also avoiding
	// codes in the seen set. Batch imports use it so rows of one batch
	// never collide with each other before they reach the database.
	NextSkipping(ctx context.Context, seen map[string]struct{}) (string, error)
}

// SequentialCodeAllocator generates codes of the form KH00001 by
// incrementing past the highest existing generated code.
type SequentialCodeAllocator struct {
	customerRepo partner.CustomerRepository
}

// NewSequentialCodeAllocator creates a new SequentialCodeAllocator
func NewSequentialCodeAllocator(customerRepo partner.CustomerRepository) *SequentialCodeAllocator {
	return &SequentialCodeAllocator{customerRepo: customerRepo}
}

// Next allocates the next free code
func (a *SequentialCodeAllocator) Next(ctx context.Context) (string, error) {
	return a.NextSkipping(ctx, nil)
}

// NextSkipping allocates the next free code not present in seen
func (a *SequentialCodeAllocator) NextSkipping(ctx context.Context, seen map[string]struct{}) (string, error) {
	maxCode, err := a.customerRepo.MaxGeneratedCode(ctx, partner.CodePrefix)
	if err != nil {
		return "", err
	}

	next := nextNumber(maxCode)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := fmt.Sprintf("%s%0*d", partner.CodePrefix, partner.CodeDigits, next)
		if _, taken := seen[code]; taken {
			next++
			continue
		}
		exists, err := a.customerRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if exists {
			next++
			continue
		}
		return code, nil
	}

	return "", shared.NewDomainError("CODE_GENERATION_FAILED",
		fmt.Sprintf("Could not allocate a customer code after %d attempts", maxCodeAttempts))
}

// nextNumber extracts the numeric suffix of the highest existing code
// and returns its successor. An empty or malformed code starts the
// sequence at 1.
func nextNumber(maxCode string) int {
	if maxCode == "" {
		return 1
	}
	suffix := strings.TrimPrefix(strings.ToUpper(maxCode), partner.CodePrefix)
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}

// Ensure SequentialCodeAllocator implements CodeAllocator
var _ CodeAllocator = (*SequentialCodeAllocator)(nil)
