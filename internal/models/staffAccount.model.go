package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type StaffAccount struct {
	BaseUUIDModel
	Username    string     `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"type:text"                      json:"email"`
	Password    string     `gorm:"type:text;not null"             json:"-"`
	IsStaff     bool       `gorm:"type:bool;default:true"         json:"isStaff"`
	IsActive    bool       `gorm:"type:bool;default:true"         json:"isActive"`
	LastLoginAt *time.Time `gorm:"type:timestamp"                 json:"lastLoginAt,omitempty"`
}

func (s *StaffAccount) BeforeSave(tx *gorm.DB) error {
	s.Username = strings.TrimSpace(s.Username)
	s.Email = NormalizeEmail(s.Email)
	return nil
}

func (s *StaffAccount) SetPassword(raw string) error {
	hash, err := hashPassword(raw)
	if err != nil {
		return err
	}
	s.Password = hash
	return nil
}

func (s *StaffAccount) CheckPassword(raw string) bool {
	return checkPassword(s.Password, raw)
}

// CanAccessAdmin reports whether the account may hold a staff session.
func (s *StaffAccount) CanAccessAdmin() bool {
	return s.IsStaff && s.IsActive
}

// DisplayName is what ledger and approval views show as the acting staff member.
func (s *StaffAccount) DisplayName() string {
	if s.Username != "" {
		return s.Username
	}
	return s.Email
}
