package initialize

import (
	"errors"

	"ecobayanihan/config"
	. "ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// InitializeTables creates the production data the service cannot run
// without: the bootstrap staff account from ADMIN_USERNAME/ADMIN_PASSWORD.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeStaffAccount(db, config, log); err != nil {
		return log.Err("failed to initialize staff account", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeStaffAccount(db *gorm.DB, config config.Config, log logger.Logger) error {
	if config.AdminUsername == "" {
		log.Info("ADMIN_USERNAME not set, skipping bootstrap staff account")
		return nil
	}

	var existing StaffAccount
	err := db.Where("username = ?", config.AdminUsername).First(&existing).Error
	if err == nil {
		log.Debug("Staff account already exists", "username", config.AdminUsername)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return log.Err("failed to look up staff account", err, "username", config.AdminUsername)
	}

	staff := StaffAccount{
		Username: config.AdminUsername,
		IsStaff:  true,
		IsActive: true,
	}
	if err := staff.SetPassword(config.AdminPassword); err != nil {
		return log.Err("failed to hash staff password", err)
	}

	if err := db.Create(&staff).Error; err != nil {
		return log.Err("failed to create staff account", err, "username", staff.Username)
	}

	log.Info("Bootstrap staff account created", "username", staff.Username)
	return nil
}
