package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/metrics"
	"github.com/dom/bandmates/internal/repository"
	"github.com/rs/zerolog"
)

var ErrInvalidUserID = domain.NewValidationError("userId", "invalid user id")

type ConversationService struct {
	userRepo repository.UserRepository
	roomRepo repository.ConversationRepository
	log      zerolog.Logger
}

func NewConversationService(userRepo repository.UserRepository, roomRepo repository.ConversationRepository, log zerolog.Logger) *ConversationService {
	return &ConversationService{
		userRepo: userRepo,
		roomRepo: roomRepo,
		log:      log.With().Str("component", "conversations").Logger(),
	}
}

// Resolve returns the room shared by requester and target, creating it on
// first use. Argument order does not matter.
func (s *ConversationService) Resolve(ctx context.Context, requesterID, targetID int64) (int64, error) {
	if requesterID <= 0 || targetID <= 0 {
		return 0, ErrInvalidUserID
	}

	key, err := domain.NewPairKey(requesterID, targetID)
	if err != nil {
		metrics.RoomResolutionsTotal.WithLabelValues("self_chat").Inc()
		return 0, err
	}

	room, created, err := s.roomRepo.FindOrCreate(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.RoomResolutionsTotal.WithLabelValues("not_found").Inc()
			return 0, err
		}
		metrics.RoomResolutionsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).
			Int64("requester_id", requesterID).
			Int64("target_id", targetID).
			Msg("resolve conversation room failed")
		return 0, fmt.Errorf("resolve room: %w", err)
	}

	if created {
		metrics.RoomResolutionsTotal.WithLabelValues("created").Inc()
		s.log.Info().Int64("room_id", room.ID).Int64("low", key.Low).Int64("high", key.High).Msg("conversation room created")
	} else {
		metrics.RoomResolutionsTotal.WithLabelValues("existing").Inc()
	}
	return room.ID, nil
}

// ListCandidates returns every user the requester could open a chat with.
func (s *ConversationService) ListCandidates(ctx context.Context, requesterID int64) ([]domain.ChatCandidate, error) {
	candidates, err := s.userRepo.ListChatCandidates(ctx, requesterID)
	if err != nil {
		s.log.Error().Err(err).Int64("requester_id", requesterID).Msg("list chat candidates failed")
		return nil, fmt.Errorf("list chat candidates: %w", err)
	}
	return candidates, nil
}

func (s *ConversationService) ListRooms(ctx context.Context, userID int64) ([]*domain.ConversationRoom, error) {
	rooms, err := s.roomRepo.ListByUserID(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("list rooms failed")
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
