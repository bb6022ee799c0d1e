// File: /services/identity_service.go
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"injoy-api/models"
)

var ErrInvalidInitData = errors.New("invalid telegram init data")

// TelegramUser mirrors the user object inside the WebApp init data blob.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
}

// Identity is the resolved per-user identity for a session: either a
// verified Telegram user or a client-persisted anonymous id.
type Identity struct {
	UserID      string
	Telegram    *TelegramUser
	Anonymous   bool
	StartTripID string
}

// IdentityService resolves a stable user identifier once per session, from
// the host client's init data when available, falling back to an anonymous
// generated identifier.
type IdentityService struct {
	botToken string
	db       *gorm.DB
}

func NewIdentityService(botToken string, db *gorm.DB) *IdentityService {
	return &IdentityService{botToken: botToken, db: db}
}

// Resolve derives the identity for a session. An init data blob wins over
// an anonymous id; an empty anonymous id gets a freshly generated one. The
// matching users row is upserted so feeds and comments can join on it.
func (s *IdentityService) Resolve(initData, anonymousID string) (Identity, error) {
	if initData != "" {
		identity, err := s.resolveTelegram(initData)
		if err != nil {
			return Identity{}, err
		}
		return identity, nil
	}

	// anonymous ids are server-minted UUIDs; anything else echoed by a
	// client (such as a bare Telegram numeric id) gets replaced so the
	// anonymous keyspace cannot reach verified users' rows
	if _, err := uuid.Parse(anonymousID); err != nil {
		anonymousID = uuid.New().String()
	}
	user := models.User{ID: anonymousID, IsAnonymous: true}
	if err := s.upsertUser(&user); err != nil {
		return Identity{}, err
	}
	return Identity{UserID: anonymousID, Anonymous: true}, nil
}

func (s *IdentityService) resolveTelegram(initData string) (Identity, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return Identity{}, ErrInvalidInitData
	}

	if s.botToken != "" {
		if !verifyInitData(values, s.botToken) {
			return Identity{}, ErrInvalidInitData
		}
	}

	rawUser := values.Get("user")
	if rawUser == "" {
		return Identity{}, ErrInvalidInitData
	}
	var tgUser TelegramUser
	if err := json.Unmarshal([]byte(rawUser), &tgUser); err != nil || tgUser.ID == 0 {
		return Identity{}, ErrInvalidInitData
	}

	userID := fmt.Sprintf("%d", tgUser.ID)
	user := models.User{
		ID:           userID,
		TelegramID:   &tgUser.ID,
		FirstName:    tgUser.FirstName,
		LastName:     tgUser.LastName,
		Username:     tgUser.Username,
		LanguageCode: tgUser.LanguageCode,
	}
	if tgUser.PhotoURL != "" {
		user.PhotoURL = &tgUser.PhotoURL
	}
	if err := s.upsertUser(&user); err != nil {
		return Identity{}, err
	}

	return Identity{
		UserID:      userID,
		Telegram:    &tgUser,
		StartTripID: ParseStartParam(values.Get("start_param")),
	}, nil
}

func (s *IdentityService) upsertUser(user *models.User) error {
	var existing models.User
	err := s.db.Where("id = ?", user.ID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.Create(user).Error
		}
		return err
	}
	return s.db.Model(&existing).Updates(map[string]interface{}{
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"username":      user.Username,
		"language_code": user.LanguageCode,
		"photo_url":     user.PhotoURL,
	}).Error
}

// ParseStartParam extracts a trip id from the deep-link start parameter,
// which follows the trip_<id> convention.
func ParseStartParam(startParam string) string {
	if strings.HasPrefix(startParam, "trip_") {
		return strings.TrimPrefix(startParam, "trip_")
	}
	return ""
}

// verifyInitData checks the HMAC signature Telegram attaches to WebApp
// init data. The secret key is HMAC-SHA256 of the bot token keyed with the
// literal "WebAppData"; the hash covers the remaining fields sorted as
// key=value lines.
func verifyInitData(values url.Values, botToken string) bool {
	hash := values.Get("hash")
	if hash == "" {
		return false
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(hash))
}
