package redemption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/hugmug/claimkit/pkg/claimtoken"
	"github.com/hugmug/claimkit/pkg/logger"
)

// Minter performs the on-chain mint for a verified record and returns the
// transaction hash. A non-empty hash returned with an error means the
// transaction was sent but its outcome is unknown.
type Minter interface {
	Mint(ctx context.Context, recipient string, rec claimtoken.ClaimRecord) (string, error)
}

// Service verifies claim tokens and redeems them.
type Service struct {
	key              []byte
	ledger           Ledger
	minter           Minter
	singleUse        bool
	reservationTTL   time.Duration
	defaultRecipient string
	commitAttempts   int
	commitBackoff    time.Duration
	log              *slog.Logger
	now              func() time.Time

	// unrecorded holds redemptions whose mint went out but whose ledger
	// commit kept failing. They block new claims until a commit succeeds.
	mu         sync.Mutex
	unrecorded map[string]Redemption
}

// Option configures a Service.
type Option func(*Service)

// WithSingleUse toggles ledger enforcement; on by default.
func WithSingleUse(on bool) Option {
	return func(s *Service) { s.singleUse = on }
}

func WithReservationTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reservationTTL = d
		}
	}
}

// WithCommitRetry sets how many times a redemption is written to the ledger
// after a mint, and the initial pause between attempts.
func WithCommitRetry(attempts int, backoff time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.commitAttempts = attempts
		}
		if backoff >= 0 {
			s.commitBackoff = backoff
		}
	}
}

// WithDefaultRecipient sets the address minted to when a request names none.
func WithDefaultRecipient(addr string) Option {
	return func(s *Service) { s.defaultRecipient = addr }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service that verifies tokens with key.
func NewService(key []byte, ledger Ledger, minter Minter, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, claimtoken.ErrMissingKey
	}
	s := &Service{
		key:            key,
		ledger:         ledger,
		minter:         minter,
		singleUse:      true,
		reservationTTL: 5 * time.Minute,
		commitAttempts: 5,
		commitBackoff:  200 * time.Millisecond,
		log:            logger.Noop(),
		now:            time.Now,
		unrecorded:     make(map[string]Redemption),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.singleUse && s.ledger == nil {
		return nil, fmt.Errorf("%w: single-use redemption needs a ledger", ErrUnknownLedger)
	}
	if s.defaultRecipient != "" && !common.IsHexAddress(s.defaultRecipient) {
		return nil, fmt.Errorf("%w: default recipient %q", ErrInvalidRecipient, s.defaultRecipient)
	}
	s.log = s.log.With(logger.Component("redemption"))
	return s, nil
}

// NewServiceFromConfig wires a Service from Config.
func NewServiceFromConfig(cfg Config, ledger Ledger, minter Minter, log *slog.Logger) (*Service, error) {
	return NewService([]byte(cfg.Secret), ledger, minter,
		WithSingleUse(cfg.SingleUse),
		WithReservationTTL(cfg.ReservationTTL),
		WithDefaultRecipient(cfg.DefaultRecipient),
		WithLogger(log),
	)
}

// Inspect verifies a token and returns its record without redeeming it.
func (s *Service) Inspect(ctx context.Context, token string) (claimtoken.ClaimRecord, error) {
	rec, err := claimtoken.DecodeAndVerify(token, s.key)
	if err != nil {
		if errors.Is(err, claimtoken.ErrInvalidToken) {
			s.log.WarnContext(ctx, "claim token rejected", logger.Error(err))
		}
		return claimtoken.ClaimRecord{}, err
	}
	return rec, nil
}

// Status returns the stored redemption for a token's item, if any.
func (s *Service) Status(ctx context.Context, token string) (claimtoken.ClaimRecord, *Redemption, error) {
	rec, err := s.Inspect(ctx, token)
	if err != nil {
		return claimtoken.ClaimRecord{}, nil, err
	}
	if r, ok := s.heldRedemption(ClaimKey(rec)); ok {
		return rec, &r, nil
	}
	if s.ledger == nil {
		return rec, nil, nil
	}
	r, ok, err := s.ledger.Lookup(ctx, ClaimKey(rec))
	if err != nil || !ok {
		return rec, nil, err
	}
	return rec, &r, nil
}

// Redeem verifies token, reserves the item, mints it to recipient and records
// the result. An empty recipient falls back to the configured default.
//
// The reservation is released only when no transaction was sent. A sent
// transaction without a receipt is recorded as unconfirmed and reported with
// ErrMintUnconfirmed, so the item cannot be claimed a second time.
func (s *Service) Redeem(ctx context.Context, token, recipient string) (Redemption, error) {
	rec, err := s.Inspect(ctx, token)
	if err != nil {
		return Redemption{}, err
	}

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		recipient = s.defaultRecipient
	}
	if !common.IsHexAddress(recipient) {
		return Redemption{}, ErrInvalidRecipient
	}

	log := s.log.With(logger.Serial(rec.SerialNumber), logger.ProductType(rec.ProductType), logger.Color(rec.Color))
	key := ClaimKey(rec)

	if s.singleUse {
		if held, ok := s.heldRedemption(key); ok {
			s.record(ctx, log, key, held)
			return Redemption{}, ErrAlreadyRedeemed
		}
		if err := s.ledger.Reserve(ctx, key, s.reservationTTL); err != nil {
			log.InfoContext(ctx, "claim reservation refused", logger.Error(err))
			return Redemption{}, err
		}
	}

	txHash, mintErr := s.minter.Mint(ctx, recipient, rec)
	if mintErr != nil && txHash == "" {
		log.ErrorContext(ctx, "mint failed", logger.Error(mintErr))
		if s.singleUse {
			if relErr := s.ledger.Release(context.WithoutCancel(ctx), key); relErr != nil {
				log.ErrorContext(ctx, "failed to release claim reservation", logger.Error(relErr))
			}
		}
		return Redemption{}, errors.Join(ErrMintFailed, mintErr)
	}

	r := Redemption{
		ID:          uuid.New(),
		Record:      rec,
		Recipient:   common.HexToAddress(recipient).Hex(),
		TxHash:      txHash,
		Unconfirmed: mintErr != nil,
		RedeemedAt:  s.now().UTC(),
	}

	if s.singleUse {
		s.record(ctx, log, key, r)
	}

	if mintErr != nil {
		log.WarnContext(ctx, "mint sent but not confirmed", logger.Error(mintErr), logger.RedemptionID(r.ID), logger.TxHash(txHash))
		return r, errors.Join(ErrMintUnconfirmed, mintErr)
	}
	log.InfoContext(ctx, "claim redeemed", logger.RedemptionID(r.ID), logger.TxHash(txHash))
	return r, nil
}

// record commits r, retrying with backoff. A redemption that still cannot be
// written is held in memory so the item stays claimed in this process.
func (s *Service) record(ctx context.Context, log *slog.Logger, key string, r Redemption) {
	ctx = context.WithoutCancel(ctx)
	wait := s.commitBackoff

	var err error
	for attempt := range s.commitAttempts {
		if attempt > 0 && wait > 0 {
			time.Sleep(wait)
			wait *= 2
		}
		if err = s.ledger.Commit(ctx, key, r); err == nil {
			s.mu.Lock()
			delete(s.unrecorded, key)
			s.mu.Unlock()
			return
		}
	}

	s.mu.Lock()
	s.unrecorded[key] = r
	s.mu.Unlock()
	log.ErrorContext(ctx, "failed to record redemption, holding claim in memory",
		logger.Error(err), logger.RedemptionID(r.ID), logger.TxHash(r.TxHash))
}

func (s *Service) heldRedemption(key string) (Redemption, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.unrecorded[key]
	return r, ok
}
