package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"guidia-api/core/entity"

	"github.com/google/uuid"
)

// Notification is one feed item for a user, produced by meeting lifecycle
// events. Reference is a short public identifier safe to expose in push
// payloads.
type Notification struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Reference string    `db:"reference" json:"reference"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	Data      JSONB     `db:"data" json:"data"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
