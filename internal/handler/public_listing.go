package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// List handles GET /listings: the public catalogue, active listings only,
// filterable and paginated.
func (h *ListingHandler) List(c echo.Context) error {
	q, msg := parseListingQuery(c)
	if msg != "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", msg)
	}
	rows, total, err := h.Listings.Search(c.Request().Context(), q)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listings")
	}
	return c.JSON(http.StatusOK, listingPageJSON(rows, total, q.Page, q.PageSize))
}

// Retrieve handles GET /listings/:id. An id that is not a UUID cannot match
// any listing, so it reports not found rather than a validation error.
func (h *ListingHandler) Retrieve(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
	}
	detail, err := h.Listings.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
		}
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listing")
	}
	if !detail.IsActive {
		return errJSON(c, http.StatusNotFound, "not_found", "listing not found")
	}
	return c.JSON(http.StatusOK, listingJSON(*detail))
}

// ByHost handles GET /listings/host/:id: a host's active listings. Here the
// id identifies a user supplied by the caller, so a malformed value is a
// validation error, not a missing resource.
func (h *ListingHandler) ByHost(c echo.Context) error {
	hostID := c.Param("id")
	if _, err := uuid.Parse(hostID); err != nil {
		return errJSON(c, http.StatusBadRequest, "validation_error", "host id must be a valid UUID")
	}
	q, msg := parseListingQuery(c)
	if msg != "" {
		return errJSON(c, http.StatusBadRequest, "validation_error", msg)
	}
	q.HostID = hostID

	rows, total, err := h.Listings.Search(c.Request().Context(), q)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal_error", "could not load listings")
	}
	return c.JSON(http.StatusOK, listingPageJSON(rows, total, q.Page, q.PageSize))
}

// parseListingQuery reads the shared filter, ordering and pagination
// parameters. Unknown ordering values fall back to the default sort;
// unparseable numeric filters are rejected with a message naming the
// parameter.
func parseListingQuery(c echo.Context) (repository.ListingSearchQuery, string) {
	q := repository.ListingSearchQuery{
		Page:     1,
		PageSize: defaultPageSize,
		Desc:     true,
	}

	if cat := strings.TrimSpace(c.QueryParam("category")); cat != "" {
		if !model.Categories[cat] {
			return q, "category is not a recognized value"
		}
		q.Category = cat
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return q, "min_price must be a non-negative number"
		}
		q.MinPrice = &v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return q, "max_price must be a non-negative number"
		}
		q.MaxPrice = &v
	}
	if raw := c.QueryParam("bedrooms"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return q, "bedrooms must be a non-negative integer"
		}
		q.MinBedrooms = &v
	}
	if raw := c.QueryParam("max_guests"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, "max_guests must be a positive integer"
		}
		q.MinGuests = &v
	}
	q.Search = strings.TrimSpace(c.QueryParam("search"))

	if raw := strings.TrimSpace(c.QueryParam("ordering")); raw != "" {
		field := raw
		desc := false
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			desc = true
		}
		// Unknown fields keep the default ordering instead of failing,
		// so clients built against a newer sort set still get results.
		switch field {
		case "price", "created_at", "bedrooms", "max_guests":
			q.OrderBy = field
			q.Desc = desc
		}
	}

	if raw := c.QueryParam("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, "page must be a positive integer"
		}
		q.Page = v
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, "page_size must be a positive integer"
		}
		if v > maxPageSize {
			v = maxPageSize
		}
		q.PageSize = v
	}
	return q, ""
}
