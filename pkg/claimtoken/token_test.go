package claimtoken_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugmug/claimkit/pkg/claimtoken"
)

func TestIssue_Example(t *testing.T) {
	t.Parallel()

	tok, err := claimtoken.Issue(exampleRecord, []byte(exampleKey))
	require.NoError(t, err)
	assert.Equal(t, exampleToken, tok)
}

func TestIssue_Errors(t *testing.T) {
	t.Parallel()

	_, err := claimtoken.Issue(exampleRecord, nil)
	require.ErrorIs(t, err, claimtoken.ErrMissingKey)

	_, err = claimtoken.Issue(claimtoken.ClaimRecord{SerialNumber: 1, Color: "Black"}, []byte(exampleKey))
	require.ErrorIs(t, err, claimtoken.ErrInvalidRecord)

	_, err = claimtoken.Issue(claimtoken.ClaimRecord{SerialNumber: 1, Color: "Black", ProductType: strings.Repeat("x", 300)}, []byte(exampleKey))
	require.ErrorIs(t, err, claimtoken.ErrFieldTooLong)
}

func TestDecodeAndVerify(t *testing.T) {
	t.Parallel()

	t.Run("same key", func(t *testing.T) {
		t.Parallel()
		rec, err := claimtoken.DecodeAndVerify(exampleToken, []byte(exampleKey))
		require.NoError(t, err)
		assert.Equal(t, exampleRecord, rec)
	})

	t.Run("different key", func(t *testing.T) {
		t.Parallel()
		_, err := claimtoken.DecodeAndVerify(exampleToken, []byte("another-secret"))
		require.ErrorIs(t, err, claimtoken.ErrInvalidSignature)
		assert.ErrorIs(t, err, claimtoken.ErrInvalidToken)
	})

	t.Run("extra character on payload", func(t *testing.T) {
		t.Parallel()
		payload, sig, _ := strings.Cut(exampleToken, ".")
		for _, c := range []string{"A", "g", "-", "_"} {
			_, err := claimtoken.DecodeAndVerify(payload+c+"."+sig, []byte(exampleKey))
			require.ErrorIs(t, err, claimtoken.ErrInvalidToken, "suffix %q", c)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		_, err := claimtoken.DecodeAndVerify(exampleToken, nil)
		require.ErrorIs(t, err, claimtoken.ErrMissingKey)
		assert.NotErrorIs(t, err, claimtoken.ErrInvalidToken)
	})

	t.Run("signed but structurally broken", func(t *testing.T) {
		t.Parallel()
		payload := mustHex(t, "82a16e2aa163a5426c61636b")
		tok := claimtoken.ToToken(payload, claimtoken.Sign(payload, []byte(exampleKey)))
		_, err := claimtoken.DecodeAndVerify(tok, []byte(exampleKey))
		require.ErrorIs(t, err, claimtoken.ErrMissingField)
		assert.ErrorIs(t, err, claimtoken.ErrInvalidToken)
	})

	t.Run("signed but semantically empty", func(t *testing.T) {
		t.Parallel()
		payload := mustHex(t, "83a16e00a163a0a174a0")
		tok := claimtoken.ToToken(payload, claimtoken.Sign(payload, []byte(exampleKey)))
		_, err := claimtoken.DecodeAndVerify(tok, []byte(exampleKey))
		require.ErrorIs(t, err, claimtoken.ErrInvalidRecord)
		assert.ErrorIs(t, err, claimtoken.ErrInvalidToken)
	})

	t.Run("tampered payload keeps signature", func(t *testing.T) {
		t.Parallel()
		_, sig, _ := strings.Cut(exampleToken, ".")
		forged, err := claimtoken.Encode(claimtoken.ClaimRecord{SerialNumber: 43, Color: "Black", ProductType: "HUGMUG"})
		require.NoError(t, err)
		_, err = claimtoken.DecodeAndVerify(base64.RawURLEncoding.EncodeToString(forged)+"."+sig, []byte(exampleKey))
		require.ErrorIs(t, err, claimtoken.ErrInvalidSignature)
	})
}

func TestDecodeAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rec  claimtoken.ClaimRecord
		key  string
	}{
		{name: "example", rec: exampleRecord, key: exampleKey},
		{name: "large serial", rec: claimtoken.ClaimRecord{SerialNumber: claimtoken.MaxSerialNumber, Color: "Sand", ProductType: "HUGMUG"}, key: "k"},
		{name: "unicode", rec: claimtoken.ClaimRecord{SerialNumber: 7, Color: "黒", ProductType: "マグ"}, key: "unicode-secret"},
		{name: "long text", rec: claimtoken.ClaimRecord{SerialNumber: 300, Color: strings.Repeat("c", 255), ProductType: strings.Repeat("t", 255)}, key: "long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok, err := claimtoken.Issue(tt.rec, []byte(tt.key))
			require.NoError(t, err)
			assert.NotContains(t, tok, "=")

			got, err := claimtoken.DecodeAndVerify(tok, []byte(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.rec, got)
		})
	}
}

func TestClaimRecord_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		rec     claimtoken.ClaimRecord
		wantErr bool
	}{
		{name: "valid", rec: exampleRecord},
		{name: "zero serial", rec: claimtoken.ClaimRecord{Color: "Black", ProductType: "HUGMUG"}, wantErr: true},
		{name: "serial above uint32", rec: claimtoken.ClaimRecord{SerialNumber: 1 << 32, Color: "Black", ProductType: "HUGMUG"}, wantErr: true},
		{name: "no color", rec: claimtoken.ClaimRecord{SerialNumber: 1, ProductType: "HUGMUG"}, wantErr: true},
		{name: "no product type", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: "Black"}, wantErr: true},
		{name: "longest text", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: strings.Repeat("c", 255), ProductType: strings.Repeat("t", 255)}},
		{name: "color too long", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: strings.Repeat("c", 256), ProductType: "HUGMUG"}, wantErr: true},
		{name: "product type too long", rec: claimtoken.ClaimRecord{SerialNumber: 1, Color: "Black", ProductType: strings.Repeat("t", 256)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.rec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, claimtoken.ErrInvalidRecord)
				return
			}
			assert.NoError(t, err)
		})
	}
}
