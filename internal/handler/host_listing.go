package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/queue"
	"github.com/iliyamo/rental-marketplace/internal/repository"
)

// PublishFunc publishes a listing activity event. The router wires it to the
// RabbitMQ publisher; tests leave it nil, which disables publishing.
type PublishFunc func(ctx context.Context, ev queue.ListingActivityEvent) error

// ListingHandler bundles dependencies for host-scoped and public listing
// endpoints. Users backs the active-account check on mutations.
type ListingHandler struct {
	Cfg      config.Config
	Users    UserStore
	Listings ListingStore
	Publish  PublishFunc
}

func NewListingHandler(cfg config.Config, users UserStore, listings ListingStore, publish PublishFunc) *ListingHandler {
	return &ListingHandler{Cfg: cfg, Users: users, Listings: listings, Publish: publish}
}

// listingReq binds create and update bodies. Every field is optional at the
// binding level; requiredness is enforced per operation so PATCH can send
// any subset. Amenities and Images bind as []any so a non-string element is
// reported as a validation error naming the field rather than a bind error.
type listingReq struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	Location      *string      `json:"location"`
	Category      *string      `json:"category"`
	PricePerNight *json.Number `json:"price_per_night"`
	Bedrooms      *int         `json:"bedrooms"`
	Bathrooms     *float64     `json:"bathrooms"`
	MaxGuests     *int         `json:"max_guests"`
	Amenities     *[]any       `json:"amenities"`
	Images        *[]any       `json:"images"`
	Latitude      *float64     `json:"latitude"`
	Longitude     *float64     `json:"longitude"`
	IsActive      *bool        `json:"is_active"`
}

// CreateListing handles POST /listings. The authenticated caller becomes the
// host; a host id in the body is never accepted.
func (h *ListingHandler) CreateListing(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	if _, ok, err := activeUser(c, h.Users, uid); !ok {
		return err
	}
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}

	l := model.Listing{
		HostID:    uid,
		Bedrooms:  1,
		Bathrooms: 1.0,
		MaxGuests: 2,
		Amenities: []string{},
		Images:    []string{},
		IsActive:  true,
	}
	if msg := applyListingReq(&l, req); msg != "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", msg)
	}
	if msg := checkRequiredListingFields(l); msg != "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", msg)
	}

	ctx := c.Request().Context()
	if err := h.Listings.Create(ctx, &l); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not create listing")
	}
	detail, err := h.Listings.GetDetail(ctx, l.ID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listing")
	}

	h.publishActivity(queue.ListingCreated, l)
	return c.JSON(http.StatusCreated, listingJSON(*detail))
}

// UpdateListing handles PUT and PATCH /listings/:id. Only the owning host
// may update; PUT requires the full set of mandatory fields while PATCH
// accepts any subset. Repeating an identical PATCH changes nothing.
func (h *ListingHandler) UpdateListing(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	if _, ok, err := activeUser(c, h.Users, uid); !ok {
		return err
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
	}

	ctx := c.Request().Context()
	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listing")
	}
	if l.HostID != uid {
		return errJSON(c, http.StatusForbidden, "permission_denied", "you do not own this listing")
	}

	var req listingReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "invalid request body")
	}
	if c.Request().Method == http.MethodPut {
		if req.Title == nil || req.Description == nil || req.Location == nil || req.PricePerNight == nil {
			return errJSON(c, http.StatusBadRequest, "validation_error",
				"title, description, location and price_per_night are required")
		}
	}
	if msg := applyListingReq(l, req); msg != "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", msg)
	}
	if msg := checkRequiredListingFields(*l); msg != "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", msg)
	}

	if err := h.Listings.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not update listing")
	}
	detail, err := h.Listings.GetDetail(ctx, id)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listing")
	}

	h.publishActivity(queue.ListingUpdated, *l)
	return c.JSON(http.StatusOK, listingJSON(*detail))
}

// DeleteListing handles DELETE /listings/:id. Deletion is a soft delete:
// the listing disappears from public views but stays in the host's own view.
func (h *ListingHandler) DeleteListing(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	if _, ok, err := activeUser(c, h.Users, uid); !ok {
		return err
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
	}

	ctx := c.Request().Context()
	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listing")
	}
	if l.HostID != uid {
		return errJSON(c, http.StatusForbidden, "permission_denied", "you do not own this listing")
	}

	if err := h.Listings.Deactivate(ctx, id); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not delete listing")
	}

	h.publishActivity(queue.ListingDeactivated, *l)
	return c.NoContent(http.StatusNoContent)
}

// MyListings handles GET /listings/my: every listing the caller hosts,
// inactive ones included.
func (h *ListingHandler) MyListings(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "token_invalid", "unauthorized")
	}
	q, msg := parseListingQuery(c)
	if msg != "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", msg)
	}
	q.HostID = uid
	q.IncludeInactive = true

	rows, total, err := h.Listings.Search(c.Request().Context(), q)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listings")
	}
	return c.JSON(http.StatusOK, listingPageJSON(rows, total, q.Page, q.PageSize))
}

// publishActivity emits a listing event in the background, best effort. The
// request must never wait on, or fail because of, the broker.
func (h *ListingHandler) publishActivity(kind string, l model.Listing) {
	if h.Publish == nil {
		return
	}
	ev := queue.ListingActivityEvent{
		Event:         kind,
		ListingID:     l.ID,
		HostID:        l.HostID,
		Title:         l.Title,
		Location:      l.Location,
		PricePerNight: l.PricePerNight,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	publish := h.Publish
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publish(ctx, ev); err != nil {
			log.Printf("listing-events: publish %s failed: %v", kind, err)
		}
	}()
}

// applyListingReq validates the provided fields and merges them into the
// listing. It returns a message naming the offending field on failure.
func applyListingReq(l *model.Listing, req listingReq) string {
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return "title cannot be empty"
		}
		l.Title = t
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return "description cannot be empty"
		}
		l.Description = d
	}
	if req.Location != nil {
		loc := strings.TrimSpace(*req.Location)
		if loc == "" {
			return "location cannot be empty"
		}
		l.Location = loc
	}
	if req.Category != nil {
		cat := strings.TrimSpace(*req.Category)
		if cat != "" && !model.Categories[cat] {
			return "category is not a recognized value"
		}
		l.Category = cat
	}
	if req.PricePerNight != nil {
		price, ok := validatePrice(req.PricePerNight.String())
		if !ok {
			return "price_per_night must be a positive decimal with at most 2 decimal places"
		}
		l.PricePerNight = price
	}
	if req.Bedrooms != nil {
		if *req.Bedrooms < 0 {
			return "bedrooms cannot be negative"
		}
		l.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		if *req.Bathrooms < 0 {
			return "bathrooms cannot be negative"
		}
		l.Bathrooms = *req.Bathrooms
	}
	if req.MaxGuests != nil {
		if *req.MaxGuests < 1 {
			return "max_guests must be at least 1"
		}
		l.MaxGuests = *req.MaxGuests
	}
	if req.Amenities != nil {
		list, ok := stringList(*req.Amenities)
		if !ok {
			return "amenities must be a list of strings"
		}
		l.Amenities = list
	}
	if req.Images != nil {
		list, ok := stringList(*req.Images)
		if !ok {
			return "images must be a list of strings"
		}
		l.Images = list
	}
	if req.Latitude != nil {
		l.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		l.Longitude = req.Longitude
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	return ""
}

func checkRequiredListingFields(l model.Listing) string {
	switch {
	case l.Title == "":
		return "title is required"
	case l.Description == "":
		return "description is required"
	case l.Location == "":
		return "location is required"
	case l.PricePerNight == "":
		return "price_per_night is required"
	}
	return ""
}

// validatePrice accepts a strictly positive decimal with at most 8 integer
// and 2 fractional digits (the DECIMAL(10,2) column) and returns it in
// canonical form. Parsing is done on the literal text so no float rounding
// can change the stored value.
func validatePrice(s string) (string, bool) {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" || len(intPart) > 8 || !allDigits(intPart) {
		return "", false
	}
	if hasFrac && (fracPart == "" || len(fracPart) > 2 || !allDigits(fracPart)) {
		return "", false
	}
	if strings.Trim(intPart+fracPart, "0") == "" {
		return "", false // zero is not a valid price
	}
	if !hasFrac {
		return intPart, true
	}
	return intPart + "." + fracPart, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stringList(in []any) ([]string, bool) {
	out := make([]string, 0, len(in))
	for _, v := range in {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
