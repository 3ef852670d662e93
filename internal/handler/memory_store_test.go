package handler

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/utils"
)

// memUsers is an in-memory UserStore mirroring the MySQL repository's
// behavior closely enough for handler tests: lowercased unique emails,
// unique phones, case-insensitive username lookup.
type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
	seq   int
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]model.User{}}
}

func (m *memUsers) Create(_ context.Context, email, username string, phone *string, password string, cost int) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
		if phone != nil && u.Phone != nil && *u.Phone == *phone {
			return model.User{}, repository.ErrPhoneExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	m.seq++
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Phone:        phone,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().Add(time.Duration(m.seq) * time.Millisecond),
	}
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []model.User
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			matches = append(matches, u)
		}
	}
	if len(matches) == 0 {
		return model.User{}, repository.ErrUserNotFound
	}
	// Oldest account wins, same as the SQL ORDER BY created_at.
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return matches[0], nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.ID != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) PhoneTaken(_ context.Context, phone, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID != excludeID && u.Phone != nil && *u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id string, username, email, phone *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if username != nil {
		u.Username = *username
	}
	if email != nil {
		u.Email = strings.ToLower(*email)
	}
	if phone != nil {
		u.Phone = phone
	}
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return nil
}

func (m *memUsers) SetAvatar(_ context.Context, id string, url *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AvatarURL = url
	m.users[id] = u
	return nil
}

func (m *memUsers) deactivate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.IsActive = false
	m.users[id] = u
}

// memListings is an in-memory ListingStore. Filtering, ordering and
// pagination mirror the SQL search closely enough to exercise the handlers.
type memListings struct {
	mu       sync.Mutex
	listings map[string]model.Listing
	users    *memUsers
	seq      int
}

func newMemListings(users *memUsers) *memListings {
	return &memListings{listings: map[string]model.Listing{}, users: users}
}

func (m *memListings) Create(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	l.UpdatedAt = l.CreatedAt
	m.listings[l.ID] = *l
	return nil
}

func (m *memListings) GetByID(_ context.Context, id string) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	cp := l
	return &cp, nil
}

func (m *memListings) GetDetail(ctx context.Context, id string) (*repository.ListingRow, error) {
	l, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.toRow(*l), nil
}

func (m *memListings) Update(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[l.ID]; !ok {
		return repository.ErrListingNotFound
	}
	l.UpdatedAt = time.Now()
	m.listings[l.ID] = *l
	return nil
}

func (m *memListings) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return repository.ErrListingNotFound
	}
	l.IsActive = false
	m.listings[id] = l
	return nil
}

func (m *memListings) Search(_ context.Context, q repository.ListingSearchQuery) ([]repository.ListingRow, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []model.Listing
	for _, l := range m.listings {
		if !q.IncludeInactive && !l.IsActive {
			continue
		}
		if q.HostID != "" && l.HostID != q.HostID {
			continue
		}
		if q.Category != "" && l.Category != q.Category {
			continue
		}
		price, _ := strconv.ParseFloat(l.PricePerNight, 64)
		if q.MinPrice != nil && price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && price > *q.MaxPrice {
			continue
		}
		if q.MinBedrooms != nil && l.Bedrooms < *q.MinBedrooms {
			continue
		}
		if q.MinGuests != nil && l.MaxGuests < *q.MinGuests {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			hay := strings.ToLower(l.Title + " " + l.Location + " " + l.Description + " " + l.Category)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		matched = append(matched, l)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Desc {
			a, b = b, a
		}
		switch q.OrderBy {
		case "price":
			pa, _ := strconv.ParseFloat(a.PricePerNight, 64)
			pb, _ := strconv.ParseFloat(b.PricePerNight, 64)
			return pa < pb
		case "bedrooms":
			return a.Bedrooms < b.Bedrooms
		case "max_guests":
			return a.MaxGuests < b.MaxGuests
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	total := int64(len(matched))
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]repository.ListingRow, 0, end-start)
	for _, l := range matched[start:end] {
		out = append(out, *m.toRow(l))
	}
	return out, total, nil
}

func (m *memListings) toRow(l model.Listing) *repository.ListingRow {
	row := repository.ListingRow{Listing: l, HostUsername: "host", HostEmail: "host@example.com"}
	if m.users != nil {
		if u, ok := m.users.users[l.HostID]; ok {
			row.HostUsername = u.Username
			row.HostEmail = u.Email
			row.HostAvatar = u.AvatarURL
		}
	}
	return &row
}
