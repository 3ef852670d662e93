package handler

import (
	"time"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
)

// userPayload is the public representation of an account. The password hash
// is structurally absent, not merely omitted.
type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func userJSON(u model.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Avatar:    u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// hostSummary is the inline representation of a listing's host.
type hostSummary struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
}

// listingPayload is the full representation of a listing with its host.
type listingPayload struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Location      string      `json:"location"`
	Category      string      `json:"category"`
	PricePerNight string      `json:"price_per_night"`
	Bedrooms      int         `json:"bedrooms"`
	Bathrooms     float64     `json:"bathrooms"`
	MaxGuests     int         `json:"max_guests"`
	Amenities     []string    `json:"amenities"`
	Images        []string    `json:"images"`
	Latitude      *float64    `json:"latitude"`
	Longitude     *float64    `json:"longitude"`
	IsActive      bool        `json:"is_active"`
	Host          hostSummary `json:"host"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func listingJSON(lr repository.ListingRow) listingPayload {
	return listingPayload{
		ID:            lr.ID,
		Title:         lr.Title,
		Description:   lr.Description,
		Location:      lr.Location,
		Category:      lr.Category,
		PricePerNight: lr.PricePerNight,
		Bedrooms:      lr.Bedrooms,
		Bathrooms:     lr.Bathrooms,
		MaxGuests:     lr.MaxGuests,
		Amenities:     lr.Amenities,
		Images:        lr.Images,
		Latitude:      lr.Latitude,
		Longitude:     lr.Longitude,
		IsActive:      lr.IsActive,
		Host: hostSummary{
			ID:       lr.HostID,
			Username: lr.HostUsername,
			Email:    lr.HostEmail,
			Avatar:   lr.HostAvatar,
		},
		CreatedAt: lr.CreatedAt,
		UpdatedAt: lr.UpdatedAt,
	}
}

// listingPage is the pagination envelope for listing collections.
type listingPage struct {
	Data     []listingPayload `json:"data"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasNext  bool             `json:"has_next"`
	HasPrev  bool             `json:"has_prev"`
}

func listingPageJSON(rows []repository.ListingRow, total int64, page, pageSize int) listingPage {
	items := make([]listingPayload, 0, len(rows))
	for _, lr := range rows {
		items = append(items, listingJSON(lr))
	}
	return listingPage{
		Data:     items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasNext:  int64(page*pageSize) < total,
		HasPrev:  page > 1,
	}
}
