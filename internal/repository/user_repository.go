package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/utils"
)

const userColumns = "id,email,username,phone,password_hash,avatar_url,is_active,created_at,updated_at"

// UserRepo encapsulates all database queries for the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a fresh UUID and a bcrypt-hashed password and
// returns the fully populated row. Email is stored lowercased; phone is
// expected to be normalized to digits by the caller. Uniqueness races that
// slip past the handler-level checks surface as ErrEmailExists/ErrPhoneExists
// via the MySQL duplicate-key error.
func (r *UserRepo) Create(ctx context.Context, email, username string, phone *string, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, username, phone, password_hash) VALUES (?,?,?,?,?)",
		id, email, username, nullable(phone), hash)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "phone") {
				return model.User{}, ErrPhoneExists
			}
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUsername fetches a user by display name, case-insensitively. Display
// names are not unique; the oldest matching account wins so the login
// fallback behaves deterministically.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username)=LOWER(?) ORDER BY created_at ASC LIMIT 1",
		strings.TrimSpace(username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// EmailTaken reports whether another user already claims the email,
// case-insensitively. excludeID may be empty (registration path).
func (r *UserRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx,
		"SELECT 1 FROM users WHERE email=? AND id<>? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email)), excludeID)
}

// PhoneTaken reports whether another user already claims the normalized phone.
func (r *UserRepo) PhoneTaken(ctx context.Context, phone, excludeID string) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM users WHERE phone=? AND id<>? LIMIT 1", phone, excludeID)
}

// UpdateProfile applies a partial update: nil fields are left untouched.
// The SET clause is assembled dynamically from the provided fields only.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, username, email, phone *string) error {
	set := []string{}
	args := []any{}
	if username != nil {
		set = append(set, "username=?")
		args = append(args, *username)
	}
	if email != nil {
		set = append(set, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*email)))
	}
	if phone != nil {
		set = append(set, "phone=?")
		args = append(args, *phone)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "phone") {
				return ErrPhoneExists
			}
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero rows for no-op updates as well, so confirm the
		// row actually exists before reporting not found.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetAvatar stores the avatar URL for a user; nil clears it.
func (r *UserRepo) SetAvatar(ctx context.Context, id string, url *string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET avatar_url=? WHERE id=?", nullable(url), id)
	return err
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (model.User, error) {
	var u model.User
	var phone, avatar sql.NullString
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.Username, &phone, &u.PasswordHash, &avatar,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	return u, nil
}

func (r *UserRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// isDuplicate detects MySQL error 1062 (duplicate key).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
