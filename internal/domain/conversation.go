package domain

import "time"

// ConversationRoom is the direct-message channel of an unordered user pair.
// The pair is always stored with ParticipantLow < ParticipantHigh.
type ConversationRoom struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ParticipantLow  int64     `json:"participantLow" gorm:"not null"`
	ParticipantHigh int64     `json:"participantHigh" gorm:"not null"`
	CreatedAt       time.Time `json:"createdAt"`
}

// PairKey is the canonical, order-independent key of two participants.
type PairKey struct {
	Low  int64
	High int64
}

// NewPairKey orders a and b. It rejects a == b with ErrSelfChat.
func NewPairKey(a, b int64) (PairKey, error) {
	if a == b {
		return PairKey{}, ErrSelfChat
	}
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}, nil
}

func (k PairKey) Includes(id int64) bool {
	return k.Low == id || k.High == id
}
