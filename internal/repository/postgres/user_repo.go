package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/bandmates/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	if account == nil || account.User == nil {
		return errors.New("account without user")
	}
	if (account.Musician == nil) == (account.Band == nil) {
		return errors.New("account needs exactly one profile")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account.User).Error; err != nil {
			if isUniqueViolation(err, constraintUsersEmail) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if account.Musician != nil {
			account.Musician.UserID = account.User.ID
			if err := tx.Create(account.Musician).Error; err != nil {
				return fmt.Errorf("insert musician profile: %w", err)
			}
			return nil
		}

		account.Band.UserID = account.User.ID
		if err := tx.Create(account.Band).Error; err != nil {
			return fmt.Errorf("insert band profile: %w", err)
		}
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", domain.CanonicalEmail(email)).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

// Update writes the editable columns of user. Identity, credentials, type and
// role are left alone.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.Email = domain.CanonicalEmail(user.Email)
	res := r.db.WithContext(ctx).
		Model(user).
		Select("full_name", "email", "location", "updated_at").
		Updates(user)
	if res.Error != nil {
		if isUniqueViolation(res.Error, constraintUsersEmail) {
			return domain.ErrEmailTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetRoleByEmail(ctx context.Context, email string, role domain.Role) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", domain.CanonicalEmail(email)).
		Update("role", role)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) ListChatCandidates(ctx context.Context, excludeID int64) ([]domain.ChatCandidate, error) {
	candidates := []domain.ChatCandidate{}
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("id AS user_id, full_name, email").
		Where("id <> ?", excludeID).
		Order("id").
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *userRepository) ListProfiles(ctx context.Context) ([]domain.ProfileRow, error) {
	rows := []domain.ProfileRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.full_name, u.email, u.location, u.user_type, u.role,
		       COALESCE(m.instrument, '') AS instrument,
		       COALESCE(m.experience, '') AS experience,
		       COALESCE(b.genre, '') AS genre,
		       COALESCE(m.description, b.description, '') AS description
		FROM users u
		LEFT JOIN musician_profiles m ON m.user_id = u.id
		LEFT JOIN band_profiles b ON b.user_id = u.id
		WHERE m.user_id IS NOT NULL OR b.user_id IS NOT NULL
		ORDER BY u.id`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userRepository) ListBands(ctx context.Context) ([]domain.BandListing, error) {
	bands := []domain.BandListing{}
	err := r.db.WithContext(ctx).
		Table("band_profiles AS b").
		Select("u.full_name, u.location, b.genre").
		Joins("JOIN users u ON b.user_id = u.id").
		Order("u.full_name").
		Scan(&bands).Error
	if err != nil {
		return nil, err
	}
	return bands, nil
}

func (r *userRepository) ListMusicians(ctx context.Context) ([]domain.MusicianListing, error) {
	musicians := []domain.MusicianListing{}
	err := r.db.WithContext(ctx).
		Table("musician_profiles AS m").
		Select("u.full_name, u.location, m.instrument").
		Joins("JOIN users u ON m.user_id = u.id").
		Order("u.full_name").
		Scan(&musicians).Error
	if err != nil {
		return nil, err
	}
	return musicians, nil
}

func (r *userRepository) DeleteCascade(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row lock blocks foreign-key inserts that reference this user
		// until the transaction ends.
		var user domain.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&user, "id = ?", id).Error
		if err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}

		dependents := []struct {
			name  string
			model any
			where string
			args  []any
		}{
			{"conversation rooms", &domain.ConversationRoom{}, "participant_low = ? OR participant_high = ?", []any{id, id}},
			{"musician profile", &domain.MusicianProfile{}, "user_id = ?", []any{id}},
			{"band profile", &domain.BandProfile{}, "user_id = ?", []any{id}},
			{"sessions", &domain.Session{}, "user_id = ?", []any{id}},
		}
		for _, d := range dependents {
			res := tx.Where(d.where, d.args...).Delete(d.model)
			if res.Error != nil {
				return fmt.Errorf("delete %s: %w", d.name, res.Error)
			}
			affected += res.RowsAffected
		}

		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		affected += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
