package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/utils"
)

const minPasswordLen = 8

// AuthHandler bundles dependencies for registration, login, token refresh
// and the current-user profile endpoints. Avatars may be nil when no object
// store is configured; the avatar endpoints then report an upstream failure.
type AuthHandler struct {
	Cfg     config.Config
	Users   UserStore
	Avatars AvatarMedia
}

func NewAuthHandler(cfg config.Config, users UserStore, avatars AvatarMedia) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Avatars: avatars}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginReq struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`    // legacy alias for identifier
	Username   string `json:"username"` // legacy alias for identifier
	Password   string `json:"password"`
}

type refreshReq struct {
	Refresh      string `json:"refresh"`
	RefreshToken string `json:"refresh_token"` // legacy alias
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User    userPayload `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// Register creates an account and returns the profile with a token pair.
// Duplicate email/phone and weak passwords are validation failures, never
// storage-layer errors.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", "username cannot be empty")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return errJSON(c, http.StatusBadRequest, "validation_error", "a valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return errJSON(c, http.StatusBadRequest, "validation_error", "password must be at least 8 characters")
	}
	phone, ok := utils.NormalizePhone(req.Phone)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "validation_error", "phone must be between 8 and 15 digits")
	}

	ctx := c.Request().Context()
	if taken, err := h.Users.EmailTaken(ctx, req.Email, ""); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not create user")
	} else if taken {
		return errJSON(c, http.StatusBadRequest, "validation_error", "email is already in use")
	}
	if taken, err := h.Users.PhoneTaken(ctx, phone, ""); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not create user")
	} else if taken {
		return errJSON(c, http.StatusBadRequest, "validation_error", "phone is already in use")
	}

	u, err := h.Users.Create(ctx, req.Email, req.Username, &phone, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		// A concurrent registration can still hit the unique index.
		if errors.Is(err, repository.ErrEmailExists) {
			return errJSON(c, http.StatusBadRequest, "validation_error", "email is already in use")
		}
		if errors.Is(err, repository.ErrPhoneExists) {
			return errJSON(c, http.StatusBadRequest, "validation_error", "phone is already in use")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not create user")
	}

	access, refresh, err := h.issueTokens(u.ID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not issue tokens")
	}
	return c.JSON(http.StatusCreated, authResp{User: userJSON(u), Access: access, Refresh: refresh})
}

// Login authenticates by email or, unless email-only mode is enabled, by
// display name. Every failure path returns the identical generic message so
// responses never reveal whether an identifier exists.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		identifier = strings.TrimSpace(req.Username)
	}
	if identifier == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", "identifier and password are required")
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByEmail(ctx, identifier)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errJSON(c, http.StatusInternalServerError, "internal_error", "login failed")
		}
		if h.Cfg.LoginEmailOnly {
			return errJSON(c, http.StatusUnauthorized, "authentication_failed", "invalid credentials")
		}
		u, err = h.Users.GetByUsername(ctx, identifier)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errJSON(c, http.StatusUnauthorized, "authentication_failed", "invalid credentials")
			}
			return errJSON(c, http.StatusInternalServerError, "internal_error", "login failed")
		}
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) || !u.IsActive {
		return errJSON(c, http.StatusUnauthorized, "authentication_failed", "invalid credentials")
	}

	access, refresh, err := h.issueTokens(u.ID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not issue tokens")
	}
	return c.JSON(http.StatusOK, authResp{User: userJSON(u), Access: access, Refresh: refresh})
}

// Refresh validates a refresh token and returns a new access token for the
// same subject. Both tokens are self-contained JWTs and nothing is rotated,
// but the account behind the token must still exist and be active.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	raw := strings.TrimSpace(req.Refresh)
	if raw == "" {
		raw = strings.TrimSpace(req.RefreshToken)
	}
	if raw == "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", "refresh token is required")
	}

	uid, err := utils.ParseToken(h.Cfg.JWTSecret, raw, utils.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return errJSON(c, http.StatusUnauthorized, "token_expired", "refresh token expired")
		}
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "invalid refresh token")
	}
	// Deactivation must cut token renewal off; a refresh token alone is not
	// proof the account may still act.
	if _, ok, err := activeUser(c, h.Users, uid); !ok {
		return err
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, h.Cfg.AccessTTLMin)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not issue token")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

func (h *AuthHandler) issueTokens(userID string) (tokenPart, tokenPart, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, userID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	return tokenPart{Token: access.Token, Expires: access.Exp},
		tokenPart{Token: refresh.Token, Expires: refresh.Exp}, nil
}
