package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EmailVerifier decides whether an address is acceptable for a new account.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) error
}

var errUndeliverableEmail = errors.New("email domain has no mail exchanger")

// StandardEmailVerifier checks syntax and, when CheckMX is set, that the
// domain publishes at least one MX record.
type StandardEmailVerifier struct {
	validate *validator.Validate
	checkMX  bool
	resolver *net.Resolver
}

func NewEmailVerifier(validate *validator.Validate, checkMX bool) *StandardEmailVerifier {
	return &StandardEmailVerifier{
		validate: validate,
		checkMX:  checkMX,
		resolver: net.DefaultResolver,
	}
}

func (v *StandardEmailVerifier) Verify(ctx context.Context, email string) error {
	if err := v.validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("email syntax: %w", err)
	}
	if !v.checkMX {
		return nil
	}

	at := strings.LastIndexByte(email, '@')
	records, err := v.resolver.LookupMX(ctx, email[at+1:])
	if err != nil {
		return fmt.Errorf("lookup mx: %w", err)
	}
	if len(records) == 0 {
		return errUndeliverableEmail
	}
	return nil
}
