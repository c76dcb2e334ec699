package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseUUIDModel rows are hard deleted; owners cascade to their children at the
// database level so soft-delete markers would leave orphaned unique keys behind.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                        json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                        json:"updatedAt"`
}
