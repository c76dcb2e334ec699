package models

import (
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Balances and ledger amounts live in postgres int columns.
const (
	MAX_POINTS = math.MaxInt32
	MIN_POINTS = math.MinInt32
)

func PointsInRange(points int64) bool {
	return points >= MIN_POINTS && points <= MAX_POINTS
}

type Participant struct {
	BaseUUIDModel
	Fullname      string          `gorm:"type:text;not null"             json:"fullname"`
	Username      string          `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email         string          `gorm:"type:text;uniqueIndex;not null" json:"email"`
	ContactNumber string          `gorm:"type:text;uniqueIndex;not null" json:"contactNumber"`
	Address       string          `gorm:"type:text"                      json:"address"`
	Birthdate     *datatypes.Date `gorm:"type:date"                      json:"birthdate,omitempty"`
	Password      string          `gorm:"type:text;not null"             json:"-"`
	Points        int             `gorm:"type:int;default:0;not null"    json:"points"`

	Registrations      []CleanupRegistration `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"registrations,omitempty"`
	PointsTransactions []PointsTransaction   `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Participant) BeforeSave(tx *gorm.DB) error {
	p.Email = NormalizeEmail(p.Email)
	p.Username = strings.TrimSpace(p.Username)
	p.ContactNumber = strings.TrimSpace(p.ContactNumber)
	return nil
}

func (p *Participant) SetPassword(raw string) error {
	hash, err := hashPassword(raw)
	if err != nil {
		return err
	}
	p.Password = hash
	return nil
}

func (p *Participant) CheckPassword(raw string) bool {
	return checkPassword(p.Password, raw)
}

// RegisteredAt is the moment the participant account was created.
func (p *Participant) RegisteredAt() time.Time {
	return p.CreatedAt
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
