package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/utils"
)

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load profile")
	}
	return c.JSON(http.StatusOK, userJSON(u))
}

// UpdateMe applies a partial profile update. Absent fields keep their value;
// provided fields are validated individually and uniqueness checks exclude
// the caller's own row.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	if _, ok, err := activeUser(c, h.Users, uid); !ok {
		return err
	}
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}

	ctx := c.Request().Context()
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" {
			return errJSON(c, http.StatusBadRequest, "validation_error", "username cannot be empty")
		}
		req.Username = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return errJSON(c, http.StatusBadRequest, "validation_error", "a valid email is required")
		}
		if taken, err := h.Users.EmailTaken(ctx, email, uid); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal_error", "could not update profile")
		} else if taken {
			return errJSON(c, http.StatusBadRequest, "validation_error", "email is already in use")
		}
		req.Email = &email
	}
	if req.Phone != nil {
		phone, okPhone := utils.NormalizePhone(*req.Phone)
		if !okPhone {
			return errJSON(c, http.StatusBadRequest, "validation_error", "phone must be between 8 and 15 digits")
		}
		if taken, err := h.Users.PhoneTaken(ctx, phone, uid); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal_error", "could not update profile")
		} else if taken {
			return errJSON(c, http.StatusBadRequest, "validation_error", "phone is already in use")
		}
		req.Phone = &phone
	}

	if err := h.Users.UpdateProfile(ctx, uid, req.Username, req.Email, req.Phone); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return errJSON(c, http.StatusBadRequest, "validation_error", "email is already in use")
		case errors.Is(err, repository.ErrPhoneExists):
			return errJSON(c, http.StatusBadRequest, "validation_error", "phone is already in use")
		case errors.Is(err, repository.ErrUserNotFound):
			return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not update profile")
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load profile")
	}
	return c.JSON(http.StatusOK, userJSON(u))
}

// UploadAvatar replaces the caller's avatar with the uploaded file. The old
// object is removed best effort; a stale object must never fail the request.
func (h *AuthHandler) UploadAvatar(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	u, ok, errResp := activeUser(c, h.Users, uid)
	if !ok {
		return errResp
	}
	if h.Avatars == nil {
		return errJSON(c, http.StatusBadGateway, "upstream_failure", "media storage unavailable")
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "avatar file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "could not read avatar file")
	}
	defer func() { _ = src.Close() }()

	ctx := c.Request().Context()
	url, err := h.Avatars.Upload(ctx, uid, fh.Filename, src, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return errJSON(c, http.StatusBadGateway, "upstream_failure", "could not store avatar")
	}
	if u.AvatarURL != nil {
		_ = h.Avatars.Remove(ctx, *u.AvatarURL)
	}
	if err := h.Users.SetAvatar(ctx, uid, &url); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not update profile")
	}

	u, err = h.Users.GetByID(ctx, uid)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load profile")
	}
	return c.JSON(http.StatusOK, userJSON(u))
}

// DeleteAvatar removes the caller's avatar.
func (h *AuthHandler) DeleteAvatar(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	u, ok, errResp := activeUser(c, h.Users, uid)
	if !ok {
		return errResp
	}
	ctx := c.Request().Context()
	if u.AvatarURL != nil && h.Avatars != nil {
		_ = h.Avatars.Remove(ctx, *u.AvatarURL)
	}
	if err := h.Users.SetAvatar(ctx, uid, nil); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not update profile")
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load profile")
	}
	return c.JSON(http.StatusOK, userJSON(u))
}
