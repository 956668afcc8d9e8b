package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// UserRepository handles data access for marketplace users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row.
func (r *UserRepository) Create(user *models.User) error {
	const q = `
        INSERT INTO users (email, password_hash, name, phone, location_id, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(q,
		user.Email, user.PasswordHash, user.Name, user.Phone, user.LocationID, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Get(&user, `SELECT * FROM users WHERE email = $1 LIMIT 1`, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	if err := r.db.Get(&user, `SELECT * FROM users WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsEmail checks whether an email is already registered.
func (r *UserRepository) ExistsEmail(email string) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	return exists, err
}

// UpdateProfile updates mutable profile fields.
func (r *UserRepository) UpdateProfile(user *models.User) error {
	const q = `
        UPDATE users SET
            name = $2,
            phone = $3,
            avatar_url = $4,
            bio = $5,
            location_id = $6,
            updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, user.ID, user.Name, user.Phone, user.AvatarURL, user.Bio, user.LocationID)
	return err
}

// RefreshRating recomputes a seller's aggregate rating from their reviews.
func (r *UserRepository) RefreshRating(sellerID int) error {
	const q = `
        UPDATE users SET
            rating = sub.avg_rating,
            review_count = sub.cnt,
            updated_at = NOW()
        FROM (
            SELECT ROUND(AVG(rating)::numeric, 2) AS avg_rating, COUNT(*) AS cnt
            FROM reviews WHERE seller_id = $1
        ) sub
        WHERE id = $1`
	_, err := r.db.Exec(q, sellerID)
	return err
}

// TouchLastSeen records user activity.
func (r *UserRepository) TouchLastSeen(id int) error {
	_, err := r.db.Exec(`UPDATE users SET last_seen_at = NOW() WHERE id = $1`, id)
	return err
}
