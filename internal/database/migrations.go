package database

import (
	"ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.StaffAccount{},
		&models.Participant{},
		&models.CleanupEvent{},
		&models.CleanupRegistration{},
		&models.PointsTransaction{},
		&models.LoginAttempt{},
	}
}

var additionalIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_cleanup_events_catalog ON cleanup_events (date DESC, start_time DESC)",
	"CREATE INDEX IF NOT EXISTS idx_points_transactions_participant_created ON points_transactions (participant_id, created_at DESC)",
}

// CreateIndexes adds the indexes AutoMigrate cannot express.
func CreateIndexes(db *gorm.DB) error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	for _, indexSQL := range additionalIndexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return log.Err("Failed to create index", err, "sql", indexSQL)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
