package postgres

import (
	"context"
	"fmt"

	"github.com/dom/bandmates/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *conversationRepository {
	return &conversationRepository{db: db}
}

// FindOrCreate relies on the conversation_rooms_pair_key constraint: the
// insert is skipped when the pair exists, and a concurrent inserter of the
// same pair is waited for, so the follow-up read always finds the single row.
func (r *conversationRepository) FindOrCreate(ctx context.Context, key domain.PairKey) (*domain.ConversationRoom, bool, error) {
	room := &domain.ConversationRoom{
		ParticipantLow:  key.Low,
		ParticipantHigh: key.High,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_low"}, {Name: "participant_high"}},
			DoNothing: true,
		}).
		Create(room)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return nil, false, domain.ErrUserNotFound
		}
		return nil, false, fmt.Errorf("insert conversation room: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return room, true, nil
	}

	existing, err := r.GetByPair(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *conversationRepository) GetByPair(ctx context.Context, key domain.PairKey) (*domain.ConversationRoom, error) {
	var room domain.ConversationRoom
	err := r.db.WithContext(ctx).
		First(&room, "participant_low = ? AND participant_high = ?", key.Low, key.High).Error
	if err != nil {
		return nil, notFound(err, domain.ErrRoomNotFound)
	}
	return &room, nil
}

func (r *conversationRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.ConversationRoom, error) {
	var rooms []*domain.ConversationRoom
	err := r.db.WithContext(ctx).
		Where("participant_low = ? OR participant_high = ?", userID, userID).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
