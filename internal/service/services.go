package service

import (
	"github.com/dom/bandmates/internal/config"
	"github.com/dom/bandmates/internal/repository"
	"github.com/rs/zerolog"
)

type Services struct {
	Auth         *AuthService
	Registration *RegistrationService
	Conversation *ConversationService
	User         *UserService
	Tokens       *SessionTokenCodec
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) (*Services, error) {
	hasher := NewBcryptHasher(cfg.BcryptCost)
	validate := NewValidator()

	auth, err := NewAuthService(repos.User, repos.Session, hasher, cfg.SessionTTL, log)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:         auth,
		Registration: NewRegistrationService(repos.User, hasher, NewEmailVerifier(validate, cfg.EmailCheckMX), log),
		Conversation: NewConversationService(repos.User, repos.Conversation, log),
		User:         NewUserService(repos.User, repos.Session, validate, log),
		Tokens:       NewSessionTokenCodec(cfg.SessionSecret),
	}, nil
}
