package entity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
)

// Player is the logged-in user identity. It is the only record the game space keeps outside a session.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewPlayer builds a player with a fresh id. Blank name or email is rejected.
func NewPlayer(name, email string) (*Player, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" {
		return nil, apperror.ErrEmptyInput
	}

	return &Player{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}, nil
}

// Initials returns the avatar fallback letters, "Alex Johnson" -> "AJ".
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
