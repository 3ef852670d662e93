package handler // handler defines the HTTP handlers of the API

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
)

// UserStore abstracts user persistence so handlers can be exercised against
// an in-memory fake. *repository.UserRepo is the production implementation.
type UserStore interface {
	Create(ctx context.Context, email, username string, phone *string, password string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	PhoneTaken(ctx context.Context, phone, excludeID string) (bool, error)
	UpdateProfile(ctx context.Context, id string, username, email, phone *string) error
	SetAvatar(ctx context.Context, id string, url *string) error
}

// ListingStore abstracts listing persistence. *repository.ListingRepo is the
// production implementation.
type ListingStore interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	GetDetail(ctx context.Context, id string) (*repository.ListingRow, error)
	Update(ctx context.Context, l *model.Listing) error
	Deactivate(ctx context.Context, id string) error
	Search(ctx context.Context, q repository.ListingSearchQuery) ([]repository.ListingRow, int64, error)
}

// AvatarMedia is the slice of the media store the profile handlers need.
type AvatarMedia interface {
	Upload(ctx context.Context, userID, filename string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

// errJSON writes the uniform error body: a stable machine-checkable kind
// plus a short human message. Internal error text is never echoed.
func errJSON(c echo.Context, status int, kind, msg string) error {
	return c.JSON(status, echo.Map{"error": kind, "message": msg})
}

// activeUser loads the authenticated principal and blocks deactivated
// accounts from acting. A token outlives deactivation, so mutating handlers
// must re-check the account instead of trusting the token alone. When ok is
// false the error response has already been built and must be returned.
func activeUser(c echo.Context, users UserStore, uid string) (model.User, bool, error) {
	u, err := users.GetByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, false, errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
		}
		return model.User{}, false, errJSON(c, http.StatusInternalServerError, "internal_error", "could not load account")
	}
	if !u.IsActive {
		return model.User{}, false, errJSON(c, http.StatusUnauthorized, "authentication_failed", "account is inactive")
	}
	return u, true, nil
}
