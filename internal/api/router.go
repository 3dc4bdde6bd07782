package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hugmug/claimkit/internal/nftindex"
	"github.com/hugmug/claimkit/internal/redemption"
	"github.com/hugmug/claimkit/pkg/claimtoken"
	"github.com/hugmug/claimkit/pkg/httpserver"
	"github.com/hugmug/claimkit/pkg/logger"
	"github.com/hugmug/claimkit/pkg/ratelimiter"
)

// Claims is the redemption service as seen by the HTTP layer.
type Claims interface {
	Inspect(ctx context.Context, token string) (claimtoken.ClaimRecord, error)
	Status(ctx context.Context, token string) (claimtoken.ClaimRecord, *redemption.Redemption, error)
	Redeem(ctx context.Context, token, recipient string) (redemption.Redemption, error)
}

// Index resolves minted tokens.
type Index interface {
	TokenIDBySerial(ctx context.Context, serial uint64) (string, error)
	OwnedTokens(ctx context.Context, owner string) ([]nftindex.Token, error)
}

// Names resolves addresses to ENS names.
type Names interface {
	LookupAddress(ctx context.Context, address string) (string, error)
}

type Option func(*handlers)

// WithNames enables /api/resolve-ens; without it the endpoint answers 503.
func WithNames(n Names) Option {
	return func(h *handlers) { h.names = n }
}

// WithIndex enables the token lookup endpoints; without it they answer 503.
func WithIndex(idx Index) Option {
	return func(h *handlers) { h.index = idx }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *handlers) {
		if l != nil {
			h.log = l
		}
	}
}

// WithRateLimiter limits /api requests per client IP.
func WithRateLimiter(b *ratelimiter.Bucket) Option {
	return func(h *handlers) { h.limiter = b }
}

// WithReadinessChecks adds checks run by /health/ready.
func WithReadinessChecks(checks ...func(context.Context) error) Option {
	return func(h *handlers) { h.checks = append(h.checks, checks...) }
}

func WithMaxBodyBytes(n int64) Option {
	return func(h *handlers) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewRouter builds the HTTP routes around claims.
func NewRouter(claims Claims, opts ...Option) http.Handler {
	h := &handlers{
		claims:  claims,
		log:     logger.Noop(),
		maxBody: 4096,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("api"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, h.log, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, h.log, ErrMethodNotAllowed)
	})

	r.Get("/health/live", httpserver.HealthCheckHandler(h.log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(h.log, h.readinessChecks()...))

	r.Route("/api", func(r chi.Router) {
		if h.limiter != nil {
			r.Use(ratelimiter.Middleware(h.limiter, ratelimiter.ByClientIP))
		}
		r.Get("/token", h.getToken)
		r.Get("/claims/status", h.getStatus)
		r.Post("/mint", h.postMint)
		r.Get("/token-id", h.getTokenID)
		r.Get("/nfts", h.getNFTs)
		r.Get("/resolve-ens", h.getENSName)
	})

	return r
}

func (h *handlers) readinessChecks() []func(context.Context) error {
	if len(h.checks) > 0 {
		return h.checks
	}
	return []func(context.Context) error{func(context.Context) error { return nil }}
}

// RequestIDExtractor adds chi's request id to log records.
func RequestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

// requestLogger logs one line per request. The query string is left out
// because it may carry a claim token.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
