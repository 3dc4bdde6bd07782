package redemption

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugmug/claimkit/pkg/claimtoken"
)

// Redemption is the stored outcome of a claim whose mint transaction was sent.
// Unconfirmed is set when no receipt arrived before the minter gave up waiting;
// the item still counts as claimed.
type Redemption struct {
	ID          uuid.UUID              `json:"id"`
	Record      claimtoken.ClaimRecord `json:"record"`
	Recipient   string                 `json:"recipient"`
	TxHash      string                 `json:"txHash"`
	Unconfirmed bool                   `json:"unconfirmed,omitempty"`
	RedeemedAt  time.Time              `json:"redeemedAt"`
}

// Ledger tracks which physical items have been claimed.
//
// Reserve marks key as in progress for ttl and fails with ErrAlreadyRedeemed
// or ErrRedemptionPending when it is already taken. Commit stores the final
// redemption permanently; Release drops a reservation that did not complete.
type Ledger interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) error
	Commit(ctx context.Context, key string, r Redemption) error
	Release(ctx context.Context, key string) error
	Lookup(ctx context.Context, key string) (Redemption, bool, error)
}

// ClaimKey identifies the physical item a record describes.
func ClaimKey(rec claimtoken.ClaimRecord) string {
	var b strings.Builder
	b.WriteString("claim:")
	b.WriteString(strconv.Quote(rec.ProductType))
	b.WriteByte(':')
	b.WriteString(strconv.Quote(rec.Color))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(rec.SerialNumber, 10))
	return b.String()
}

type memoryEntry struct {
	redemption *Redemption
	expiresAt  time.Time
}

// MemoryLedger is a process-local Ledger for development and tests.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]memoryEntry), now: time.Now}
}

func (l *MemoryLedger) Reserve(_ context.Context, key string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[key]; ok {
		if e.redemption != nil {
			return ErrAlreadyRedeemed
		}
		if l.now().Before(e.expiresAt) {
			return ErrRedemptionPending
		}
	}
	l.entries[key] = memoryEntry{expiresAt: l.now().Add(ttl)}
	return nil
}

func (l *MemoryLedger) Commit(_ context.Context, key string, r Redemption) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = memoryEntry{redemption: &r}
	return nil
}

func (l *MemoryLedger) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[key]; ok && e.redemption == nil {
		delete(l.entries, key)
	}
	return nil
}

func (l *MemoryLedger) Lookup(_ context.Context, key string) (Redemption, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[key]; ok && e.redemption != nil {
		return *e.redemption, true, nil
	}
	return Redemption{}, false, nil
}
