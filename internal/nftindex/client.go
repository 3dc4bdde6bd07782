package nftindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// serialTrait is the metadata attribute holding the physical serial number.
const serialTrait = "number"

// Client queries getNFTsForContract and matches tokens by their serial trait.
type Client struct {
	cfg  Config
	http *http.Client
}

// New returns a Client for cfg. It fails with ErrNotConfigured unless the API
// key, contract address and base URL are all set. A nil httpClient gets one
// with cfg.Timeout.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" || cfg.ContractAddress == "" || cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

type attribute struct {
	TraitType string          `json:"trait_type"`
	Value     json.RawMessage `json:"value"`
}

type nft struct {
	TokenID string `json:"tokenId"`
	Name    string `json:"name"`
	Raw     struct {
		Metadata struct {
			Attributes []attribute `json:"attributes"`
		} `json:"metadata"`
	} `json:"raw"`
}

// serial returns the token's serial trait, or "" when it has none.
func (n nft) serial() string {
	for _, attr := range n.Raw.Metadata.Attributes {
		if strings.EqualFold(attr.TraitType, serialTrait) {
			return traitValue(attr.Value)
		}
	}
	return ""
}

type contractPage struct {
	NFTs    []nft  `json:"nfts"`
	PageKey string `json:"pageKey"`
}

type ownerPage struct {
	OwnedNFTs []nft  `json:"ownedNfts"`
	PageKey   string `json:"pageKey"`
}

// Token is a minted collectible as reported by the index.
type Token struct {
	TokenID      string `json:"tokenId"`
	Name         string `json:"name,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
}

// TokenIDBySerial returns the id of the token whose "number" trait equals serial.
// Pages are followed until a match is found or MaxPages is reached.
func (c *Client) TokenIDBySerial(ctx context.Context, serial uint64) (string, error) {
	want := strconv.FormatUint(serial, 10)
	q := url.Values{}
	q.Set("contractAddress", c.cfg.ContractAddress)
	q.Set("withMetadata", "true")

	for range c.cfg.MaxPages {
		var page contractPage
		if err := c.get(ctx, "getNFTsForContract", q, &page); err != nil {
			return "", err
		}
		for _, n := range page.NFTs {
			if n.serial() == want {
				return n.TokenID, nil
			}
		}
		if page.PageKey == "" {
			break
		}
		q.Set("pageKey", page.PageKey)
	}

	return "", ErrNotFound
}

// OwnedTokens lists the collection's tokens held by owner.
func (c *Client) OwnedTokens(ctx context.Context, owner string) ([]Token, error) {
	q := url.Values{}
	q.Set("owner", owner)
	q.Set("contractAddresses[]", c.cfg.ContractAddress)
	q.Set("withMetadata", "true")

	tokens := []Token{}
	for range c.cfg.MaxPages {
		var page ownerPage
		if err := c.get(ctx, "getNFTsForOwner", q, &page); err != nil {
			return nil, err
		}
		for _, n := range page.OwnedNFTs {
			tokens = append(tokens, Token{TokenID: n.TokenID, Name: n.Name, SerialNumber: n.serial()})
		}
		if page.PageKey == "" {
			break
		}
		q.Set("pageKey", page.PageKey)
	}
	return tokens, nil
}

func (c *Client) get(ctx context.Context, method string, q url.Values, out any) error {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(c.cfg.APIKey) + "/" + method + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Join(ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The URL carries the API key; drop it from the error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return errors.Join(ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrUpstream, method, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrUpstream, err)
	}
	return nil
}

// traitValue renders a JSON string or number trait as plain text.
func traitValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
