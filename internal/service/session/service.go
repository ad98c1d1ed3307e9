// Package session issues the anonymous ids that key a shopper's cart and
// wishlist.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session id")

// Session is handed to the client, which sends ID back on every cart call.
type Session struct {
	ID       string    `json:"sessionId"`
	IssuedAt time.Time `json:"issuedAt"`
}

type Service struct {
	now func() time.Time
}

func New() *Service {
	return &Service{now: time.Now}
}

func (s *Service) Issue() Session {
	return Session{ID: uuid.NewString(), IssuedAt: s.now().UTC()}
}

// Parse normalizes a client supplied id. Only random (v4) UUIDs are accepted.
func (s *Service) Parse(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id.Version() != 4 {
		return "", ErrInvalidSession
	}
	return id.String(), nil
}
