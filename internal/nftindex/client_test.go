package nftindex_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugmug/claimkit/internal/nftindex"
)

const (
	page1 = `{"nfts":[
		{"tokenId":"1","raw":{"metadata":{"attributes":[{"trait_type":"Color","value":"Black"},{"trait_type":"Number","value":7}]}}},
		{"tokenId":"2","raw":{"metadata":{}}}
	],"pageKey":"next"}`
	page2 = `{"nfts":[
		{"tokenId":"5","raw":{"metadata":{"attributes":[{"trait_type":"number","value":"42"}]}}}
	]}`
	ownerPage = `{"ownedNfts":[
		{"tokenId":"5","name":"HUGMUG #42","raw":{"metadata":{"attributes":[{"trait_type":"number","value":"42"}]}}},
		{"tokenId":"9","raw":{"metadata":{}}}
	]}`
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/key-123/getNFTsForOwner" {
			assert.Equal(t, "0xowner", r.URL.Query().Get("owner"))
			assert.Equal(t, "0xabc", r.URL.Query().Get("contractAddresses[]"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(ownerPage))
			return
		}
		if r.URL.Path != "/key-123/getNFTsForContract" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "0xabc", r.URL.Query().Get("contractAddress"))
		assert.Equal(t, "true", r.URL.Query().Get("withMetadata"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageKey") == "next" {
			_, _ = w.Write([]byte(page2))
			return
		}
		_, _ = w.Write([]byte(page1))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_TokenIDBySerial(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c, err := nftindex.New(nftindex.Config{BaseURL: srv.URL, APIKey: "key-123", ContractAddress: "0xabc", MaxPages: 5}, srv.Client())
	require.NoError(t, err)

	id, err := c.TokenIDBySerial(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "1", id, "numeric trait value on first page")

	id, err = c.TokenIDBySerial(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "5", id, "string trait value on second page")

	_, err = c.TokenIDBySerial(context.Background(), 99)
	require.ErrorIs(t, err, nftindex.ErrNotFound)
}

func TestClient_PageLimit(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c, err := nftindex.New(nftindex.Config{BaseURL: srv.URL, APIKey: "key-123", ContractAddress: "0xabc", MaxPages: 1}, srv.Client())
	require.NoError(t, err)

	_, err = c.TokenIDBySerial(context.Background(), 42)
	require.ErrorIs(t, err, nftindex.ErrNotFound)
}

func TestClient_UpstreamError(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c, err := nftindex.New(nftindex.Config{BaseURL: srv.URL, APIKey: "wrong-key", ContractAddress: "0xabc"}, srv.Client())
	require.NoError(t, err)

	_, err = c.TokenIDBySerial(context.Background(), 7)
	require.ErrorIs(t, err, nftindex.ErrUpstream)
	assert.NotContains(t, err.Error(), "wrong-key")
}

func TestNew_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := nftindex.New(nftindex.Config{BaseURL: "https://example.com"}, nil)
	require.ErrorIs(t, err, nftindex.ErrNotConfigured)
}

func TestClient_OwnedTokens(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	c, err := nftindex.New(nftindex.Config{BaseURL: srv.URL, APIKey: "key-123", ContractAddress: "0xabc", MaxPages: 5}, srv.Client())
	require.NoError(t, err)

	tokens, err := c.OwnedTokens(context.Background(), "0xowner")
	require.NoError(t, err)
	assert.Equal(t, []nftindex.Token{
		{TokenID: "5", Name: "HUGMUG #42", SerialNumber: "42"},
		{TokenID: "9"},
	}, tokens)
}
