package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardEmailVerifier_Syntax(t *testing.T) {
	verifier := NewEmailVerifier(NewValidator(), false)
	ctx := context.Background()

	for _, email := range []string{"alice@example.com", "a.b+tag@sub.example.it"} {
		assert.NoError(t, verifier.Verify(ctx, email), email)
	}
	for _, email := range []string{"", "alice", "alice@", "@example.com", "alice example@x.com"} {
		assert.Error(t, verifier.Verify(ctx, email), email)
	}
}
