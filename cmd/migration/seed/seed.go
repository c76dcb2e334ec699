package seed

import (
	"time"

	"ecobayanihan/config"
	. "ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed loads development fixtures: a staff login, a participant login and
// one upcoming event.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	return db.Transaction(func(tx *gorm.DB) error {
		staff, err := seedStaff(tx, log)
		if err != nil {
			return err
		}

		if err := seedParticipant(tx, log); err != nil {
			return err
		}

		return seedEvent(tx, staff, time.Now().UTC(), log)
	})
}

func seedStaff(tx *gorm.DB, log logger.Logger) (*StaffAccount, error) {
	var staff StaffAccount
	err := tx.Where("username = ?", "admin").
		Attrs(StaffAccount{IsStaff: true, IsActive: true}).
		FirstOrInit(&staff).Error
	if err != nil {
		return nil, log.Err("failed to load admin account", err)
	}

	staff.Username = "admin"
	staff.Email = "admin@example.com"
	if err := staff.SetPassword("admin123"); err != nil {
		return nil, log.Err("failed to hash admin password", err)
	}

	if err := tx.Save(&staff).Error; err != nil {
		return nil, log.Err("failed to save admin account", err)
	}

	log.Info("Seeded staff account", "username", staff.Username)
	return &staff, nil
}

func seedParticipant(tx *gorm.DB, log logger.Logger) error {
	birthdate := datatypes.Date(time.Date(1998, 1, 1, 0, 0, 0, 0, time.UTC))
	participant := Participant{
		Fullname:      "Test User",
		Username:      "testuser",
		Email:         "test@example.com",
		ContactNumber: "09123456789",
		Address:       "Test Address, Manila",
		Birthdate:     &birthdate,
	}
	if err := participant.SetPassword("test123"); err != nil {
		return log.Err("failed to hash participant password", err)
	}

	if err := tx.Create(&participant).Error; err != nil {
		return log.Err("failed to create participant", err, "email", participant.Email)
	}

	log.Info("Seeded participant", "email", participant.Email)
	return nil
}

func seedEvent(tx *gorm.DB, staff *StaffAccount, now time.Time, log logger.Logger) error {
	date := now.AddDate(0, 0, 7)
	event := CleanupEvent{
		Name:             "Beach Cleanup Drive",
		Place:            PlaceBeach,
		SpecificLocation: "Manila Bay, Roxas Boulevard",
		Date:             datatypes.Date(time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)),
		StartTime:        datatypes.NewTime(8, 0, 0, 0),
		DurationHours:    decimal.NewFromInt(4),
		Points:           15,
		MaxParticipants:  50,
		Description:      "Join us in cleaning up Manila Bay and protecting marine life.",
		IsActive:         true,
		CreatedByID:      &staff.ID,
	}

	if err := tx.Create(&event).Error; err != nil {
		return log.Err("failed to create event", err, "name", event.Name)
	}

	log.Info("Seeded event", "name", event.Name, "date", date.Format("2006-01-02"))
	return nil
}
