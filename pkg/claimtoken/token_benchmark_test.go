package claimtoken_test

import (
	"testing"

	"github.com/hugmug/claimkit/pkg/claimtoken"
)

func BenchmarkIssue(b *testing.B) {
	key := []byte("benchmark-secret")

	for b.Loop() {
		if _, err := claimtoken.Issue(exampleRecord, key); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeAndVerify(b *testing.B) {
	key := []byte("benchmark-secret")
	tok, err := claimtoken.Issue(exampleRecord, key)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := claimtoken.DecodeAndVerify(tok, key); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	payload, err := claimtoken.Encode(exampleRecord)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := claimtoken.Decode(payload); err != nil {
			b.Fatal(err)
		}
	}
}
