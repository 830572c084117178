package db

import (
	"log"

	"podcast-polyglot/internal/models"
)

// UpsertUser inserts a user keyed by the identity provider's subject claim,
// or refreshes the email on an existing row.
func UpsertUser(id, email string) (*models.User, error) {
	query := `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			updated_at = NOW()
		RETURNING id, email, telegram_chat_id, rss_uuid, created_at, updated_at
	`
	user := &models.User{}
	err := DB.Get(user, query, id, email)
	if err != nil {
		log.Printf("Error upserting user: %v", err)
		return nil, err
	}
	return user, nil
}

func GetUserByID(id string) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByRSSUUID(uuid string) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE rss_uuid = $1", uuid)
	if err != nil {
		return nil, err
	}
	return user, nil
}
