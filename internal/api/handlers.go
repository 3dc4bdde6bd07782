package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hugmug/claimkit/internal/ens"
	"github.com/hugmug/claimkit/internal/nftindex"
	"github.com/hugmug/claimkit/internal/redemption"
	"github.com/hugmug/claimkit/pkg/claimtoken"
	"github.com/hugmug/claimkit/pkg/logger"
	"github.com/hugmug/claimkit/pkg/ratelimiter"
)

type handlers struct {
	claims  Claims
	index   Index
	names   Names
	limiter *ratelimiter.Bucket
	checks  []func(context.Context) error
	log     *slog.Logger
	maxBody int64
}

type statusResponse struct {
	Record     claimtoken.ClaimRecord `json:"record"`
	Redeemed   bool                   `json:"redeemed"`
	Redemption *redemption.Redemption `json:"redemption,omitempty"`
}

type mintRequest struct {
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
}

type mintResponse struct {
	Success bool `json:"success"`
	redemption.Redemption
}

type tokenIDResponse struct {
	TokenID string `json:"tokenId"`
}

type nftsResponse struct {
	NFTs []nftindex.Token `json:"nfts"`
}

// ensResponse carries a null name when the address has no primary name.
type ensResponse struct {
	Name *string `json:"name"`
}

func tokenParam(r *http.Request) (string, error) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		return "", ErrTokenRequired
	}
	return token, nil
}

// getToken returns the record a valid token carries.
func (h *handlers) getToken(w http.ResponseWriter, r *http.Request) {
	token, err := tokenParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	rec, err := h.claims.Inspect(r.Context(), token)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, rec)
}

func (h *handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	token, err := tokenParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	rec, red, err := h.claims.Status(r.Context(), token)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, statusResponse{Record: rec, Redeemed: red != nil, Redemption: red})
}

func (h *handlers) postMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, h.log, HTTPError{Status: http.StatusRequestEntityTooLarge, Code: "body_too_large", Message: "Request body too large"})
			return
		}
		writeError(w, r, h.log, errors.Join(ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, r, h.log, ErrTokenRequired)
		return
	}

	red, err := h.claims.Redeem(r.Context(), strings.TrimSpace(req.Token), req.Recipient)
	if errors.Is(err, redemption.ErrMintUnconfirmed) {
		h.log.WarnContext(r.Context(), "mint accepted without receipt", logger.TxHash(red.TxHash))
		writeJSON(w, http.StatusAccepted, JSONResponse{Data: mintResponse{Success: false, Redemption: red}})
		return
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, mintResponse{Success: true, Redemption: red})
}

func (h *handlers) getTokenID(w http.ResponseWriter, r *http.Request) {
	serial, err := strconv.ParseUint(r.URL.Query().Get("serialNumber"), 10, 32)
	if err != nil || serial == 0 {
		writeError(w, r, h.log, ErrInvalidSerial)
		return
	}
	if h.index == nil {
		writeError(w, r, h.log, nftindex.ErrNotConfigured)
		return
	}
	id, err := h.index.TokenIDBySerial(r.Context(), serial)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, tokenIDResponse{TokenID: id})
}

// getNFTs lists the collection's tokens held by ?address=.
func (h *handlers) getNFTs(w http.ResponseWriter, r *http.Request) {
	addr := strings.TrimSpace(r.URL.Query().Get("address"))
	if !common.IsHexAddress(addr) {
		writeError(w, r, h.log, ErrInvalidAddress)
		return
	}
	if h.index == nil {
		writeError(w, r, h.log, nftindex.ErrNotConfigured)
		return
	}
	tokens, err := h.index.OwnedTokens(r.Context(), common.HexToAddress(addr).Hex())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, nftsResponse{NFTs: tokens})
}

// getENSName returns the primary ENS name of ?address=.
func (h *handlers) getENSName(w http.ResponseWriter, r *http.Request) {
	addr := strings.TrimSpace(r.URL.Query().Get("address"))
	if !common.IsHexAddress(addr) {
		writeError(w, r, h.log, ErrInvalidAddress)
		return
	}
	if h.names == nil {
		writeError(w, r, h.log, ens.ErrNotConfigured)
		return
	}
	name, err := h.names.LookupAddress(r.Context(), addr)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	var resp ensResponse
	if name != "" {
		resp.Name = &name
	}
	writeData(w, resp)
}
