package models

import "time"

type contextKey string

// UserContextKey is the key under which the authenticated user is stored
// in the request context.
const UserContextKey = contextKey("user")

// User mirrors a row in the users table. The ID is the subject claim of the
// identity provider's bearer token.
type User struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	TelegramChatID *int64    `db:"telegram_chat_id"`
	RSSUUID        string    `db:"rss_uuid"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
