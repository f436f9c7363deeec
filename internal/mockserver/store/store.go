// Package store keeps the in-memory state of the development backend:
// accounts, issued tokens, collection points and categories. Everything is
// lost on restart, which is the point.
package store

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ecomapa/internal/domain/point"
)

// Detail strings mirrored from the production auth layer. The client matches
// DetailBlacklisted literally, so it must not drift.
const (
	DetailBlacklisted = "Token is blacklisted"
	DetailInvalid     = "Token is invalid or expired"
	DetailNotValid    = "Given token not valid for any token type"
)

var (
	ErrEmailTaken         = errors.New("account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameTaken          = errors.New("collection point with this name already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)

// TokenError is an auth failure with the detail string the wire carries.
type TokenError struct {
	Detail string
}

func (e *TokenError) Error() string { return e.Detail }

// Account is a registered user.
type Account struct {
	ID           int
	FirstName    string
	LastName     string
	Email        string
	PasswordHash []byte
	IsStaff      bool
}

// StoredPoint is a collection point plus its ownership bookkeeping.
type StoredPoint struct {
	point.Point
	OwnerID int
}

type accessInfo struct {
	userID    int
	expiresAt time.Time
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	accounts   map[string]*Account
	nextUserID int

	access    map[string]accessInfo
	refresh   map[string]int
	blacklist map[string]struct{}
	accessTTL time.Duration

	points      []*StoredPoint
	nextPointID int

	categories []point.Category
}

func New() *Store {
	return &Store{
		accounts:    make(map[string]*Account),
		nextUserID:  1,
		access:      make(map[string]accessInfo),
		refresh:     make(map[string]int),
		blacklist:   make(map[string]struct{}),
		accessTTL:   30 * time.Minute,
		nextPointID: 1,
		categories: []point.Category{
			{ID: 1, Name: "Papel", Description: "Papel e papelão"},
			{ID: 2, Name: "Plástico", Description: "Plásticos recicláveis"},
			{ID: 3, Name: "Vidro", Description: "Garrafas e frascos de vidro"},
			{ID: 4, Name: "Metal", Description: "Latas e sucata metálica"},
			{ID: 5, Name: "Eletrônicos", Description: "Lixo eletrônico"},
			{ID: 6, Name: "Pilhas e baterias", Description: ""},
			{ID: 7, Name: "Óleo de cozinha", Description: ""},
		},
	}
}

// SetAccessTTL shortens token life for tests that exercise refresh.
func (s *Store) SetAccessTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTTL = ttl
}

func (s *Store) Register(firstName, lastName, email, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.accounts[key]; ok {
		return nil, ErrEmailTaken
	}

	acc := &Account{
		ID:           s.nextUserID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	}
	s.nextUserID++
	s.accounts[key] = acc
	return acc, nil
}

func (s *Store) Authenticate(email, password string) (*Account, error) {
	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

func (s *Store) AccountByID(id int) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return nil, false
}

// IssuePair mints an access/refresh token pair for the user.
func (s *Store) IssuePair(userID int) (access, refresh string, err error) {
	access, err = mintToken()
	if err != nil {
		return "", "", err
	}
	refresh, err = mintToken()
	if err != nil {
		return "", "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access[access] = accessInfo{userID: userID, expiresAt: time.Now().Add(s.accessTTL)}
	s.refresh[refresh] = userID
	return access, refresh, nil
}

// RefreshAccess mints a new access token against a still-valid refresh token.
// The refresh token itself stays valid; there is no rotation.
func (s *Store) RefreshAccess(refreshToken string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blacklist[refreshToken]; ok {
		return "", &TokenError{Detail: DetailBlacklisted}
	}
	userID, ok := s.refresh[refreshToken]
	if !ok {
		return "", &TokenError{Detail: DetailInvalid}
	}

	access, err := mintToken()
	if err != nil {
		return "", err
	}
	s.access[access] = accessInfo{userID: userID, expiresAt: time.Now().Add(s.accessTTL)}
	return access, nil
}

// VerifyToken checks any token the pair protocol knows about.
func (s *Store) VerifyToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blacklist[token]; ok {
		return &TokenError{Detail: DetailBlacklisted}
	}
	if info, ok := s.access[token]; ok {
		if time.Now().After(info.expiresAt) {
			return &TokenError{Detail: DetailInvalid}
		}
		return nil
	}
	if _, ok := s.refresh[token]; ok {
		return nil
	}
	return &TokenError{Detail: DetailInvalid}
}

// ValidateAccess resolves the bearer token to a user ID.
func (s *Store) ValidateAccess(token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blacklist[token]; ok {
		return 0, &TokenError{Detail: DetailBlacklisted}
	}
	info, ok := s.access[token]
	if !ok || time.Now().After(info.expiresAt) {
		return 0, &TokenError{Detail: DetailNotValid}
	}
	return info.userID, nil
}

// Logout blacklists the refresh token and the presented access token.
func (s *Store) Logout(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if refreshToken != "" {
		s.blacklist[refreshToken] = struct{}{}
	}
	if accessToken != "" {
		s.blacklist[accessToken] = struct{}{}
	}
}

// RevokeAccess blacklists a single access token. Test hook for forcing the
// refresh path without waiting out the TTL.
func (s *Store) RevokeAccess(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = struct{}{}
}

func (s *Store) CreatePoint(ownerID int, req point.CreateRequest) (*StoredPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.points {
		if strings.EqualFold(p.Name, req.Name) {
			return nil, ErrNameTaken
		}
	}

	sp := &StoredPoint{
		Point: point.Point{
			ID:             s.nextPointID,
			Name:           req.Name,
			Description:    req.Description,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			Types:          req.Types,
			OperatingHours: req.OperatingHours,
			Status:         "pending",
		},
		OwnerID: ownerID,
	}
	s.nextPointID++
	s.points = append(s.points, sp)
	return sp, nil
}

// AddImage records an uploaded image filename against the point.
func (s *Store) AddImage(pointID int, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.points {
		if p.ID == pointID {
			p.Images = append(p.Images, fmt.Sprintf("/media/points/%d/%s", pointID, filename))
			return nil
		}
	}
	return ErrNotFound
}

// Points returns all points, optionally narrowed to ones accepting any of
// the given types.
func (s *Store) Points(types []int) []point.Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]point.Point, 0, len(s.points))
	for _, p := range s.points {
		if len(types) > 0 && !acceptsAny(p.Types, types) {
			continue
		}
		out = append(out, p.Point)
	}
	return out
}

func (s *Store) PointsByOwner(ownerID int) []point.Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []point.Point
	for _, p := range s.points {
		if p.OwnerID == ownerID {
			out = append(out, p.Point)
		}
	}
	return out
}

func (s *Store) PointByID(id int) (point.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.points {
		if p.ID == id {
			return p.Point, true
		}
	}
	return point.Point{}, false
}

// DeletePoint removes a point. Only the owner or staff may delete.
func (s *Store) DeletePoint(id, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.points {
		if p.ID != id {
			continue
		}
		acc := s.accountByIDLocked(userID)
		if p.OwnerID != userID && (acc == nil || !acc.IsStaff) {
			return ErrForbidden
		}
		s.points = append(s.points[:i], s.points[i+1:]...)
		return nil
	}
	return ErrNotFound
}

func (s *Store) Categories() []point.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]point.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) accountByIDLocked(id int) *Account {
	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc
		}
	}
	return nil
}

func acceptsAny(have, want []int) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func mintToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
