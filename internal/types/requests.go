package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"ecobayanihan/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	DATE_LAYOUT = "2006-01-02"
	TIME_LAYOUT = "15:04"
)

var contactNumberPattern = regexp.MustCompile(`^[0-9 +\-]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("contact_number", func(fl validator.FieldLevel) bool {
			return contactNumberPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("place", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "beach", "park", "street", "river", "general":
				return true
			}
			return false
		})
	})
	return validate
}

// ValidationError carries field level messages for a rejected request.
type ValidationError struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns the error only when at least one field failed.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// AddPasswordError records a length failure from SetPassword as a field error
// on "password". Any other error is returned unchanged.
func (e *ValidationError) AddPasswordError(err error) error {
	switch {
	case errors.Is(err, models.ErrPasswordTooShort):
		e.Add("password", fmt.Sprintf("Ensure this value has at least %d characters.", models.MIN_PASSWORD_LENGTH))
	case errors.Is(err, models.ErrPasswordTooLong):
		e.Add("password", fmt.Sprintf("Ensure this value has at most %d bytes.", models.MAX_PASSWORD_BYTES))
	default:
		return err
	}
	return e
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: make(map[string]string)}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// Validate checks struct tags and returns a ValidationError describing every failed field.
func Validate(message string, request any) *ValidationError {
	result := NewValidationError(message)

	err := validatorInstance().Struct(request)
	if err == nil {
		return result
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		result.Add("request", err.Error())
		return result
	}

	for _, fieldErr := range fieldErrors {
		result.Add(fieldErr.Field(), fieldMessage(fieldErr))
	}
	return result
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fieldErr.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fieldErr.Param())
	case "max":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fieldErr.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fieldErr.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fieldErr.Param())
	case "eqfield":
		return "Passwords do not match."
	case "contact_number":
		return "Contact number must contain only digits, spaces, hyphens, or plus sign."
	case "place":
		return "Select a valid choice."
	case "datetime":
		return "Enter a valid date or time."
	default:
		return "Invalid value."
	}
}

type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password"   form:"password"   validate:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ParticipantRegistrationRequest struct {
	Fullname        string `json:"fullname"        form:"fullname"         validate:"required,max=100"`
	Username        string `json:"username"        form:"username"         validate:"required,max=50"`
	Email           string `json:"email"           form:"email"            validate:"required,email"`
	Address         string `json:"address"         form:"address"          validate:"required,max=255"`
	Birthdate       string `json:"birthdate"       form:"birthdate"        validate:"omitempty,datetime=2006-01-02"`
	ContactNumber   string `json:"contactNumber"   form:"contact_number"   validate:"required,max=15,contact_number"`
	Password        string `json:"password"        form:"password"         validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password" validate:"required,eqfield=Password"`
}

// ParticipantRequest is the staff facing create/update payload. Password is
// optional on update.
type ParticipantRequest struct {
	Fullname      string `json:"fullname"      validate:"required,max=100"`
	Username      string `json:"username"      validate:"required,max=50"`
	Email         string `json:"email"         validate:"required,email"`
	Address       string `json:"address"       validate:"required,max=255"`
	Birthdate     string `json:"birthdate"     validate:"omitempty,datetime=2006-01-02"`
	ContactNumber string `json:"contactNumber" validate:"required,max=15,contact_number"`
	Password      string `json:"password"      validate:"omitempty,min=6,max=72"`
}

// Apply copies the profile fields onto participant. The password is left to the caller.
func (r ParticipantRegistrationRequest) Apply(participant *models.Participant) error {
	return applyProfile(participant, r.Fullname, r.Username, r.Email, r.Address, r.Birthdate, r.ContactNumber)
}

func (r ParticipantRequest) Apply(participant *models.Participant) error {
	return applyProfile(participant, r.Fullname, r.Username, r.Email, r.Address, r.Birthdate, r.ContactNumber)
}

func applyProfile(
	participant *models.Participant,
	fullname, username, email, address, birthdate, contactNumber string,
) error {
	participant.Fullname = strings.TrimSpace(fullname)
	participant.Username = strings.TrimSpace(username)
	participant.Email = models.NormalizeEmail(email)
	participant.Address = strings.TrimSpace(address)
	participant.ContactNumber = strings.TrimSpace(contactNumber)
	participant.Birthdate = nil

	if birthdate != "" {
		parsed, err := time.Parse(DATE_LAYOUT, birthdate)
		if err != nil {
			return err
		}
		date := datatypes.Date(parsed)
		participant.Birthdate = &date
	}

	return nil
}

type EventRequest struct {
	Name             string          `json:"name"             validate:"required,max=200"`
	Place            string          `json:"place"            validate:"required,place"`
	SpecificLocation string          `json:"specificLocation" validate:"required,max=300"`
	Date             string          `json:"date"             validate:"required,datetime=2006-01-02"`
	StartTime        string          `json:"startTime"        validate:"required,datetime=15:04"`
	DurationHours    decimal.Decimal `json:"durationHours"`
	Points           int             `json:"points"           validate:"min=0"`
	MaxParticipants  int             `json:"maxParticipants"  validate:"gt=0"`
	Description      string          `json:"description"`
	IsActive         *bool           `json:"isActive"`
}

// ValidateEvent adds the checks struct tags cannot express.
func (r EventRequest) ValidateEvent() *ValidationError {
	result := Validate("Please correct the event details.", r)
	if !r.DurationHours.IsPositive() {
		result.Add("durationHours", "Ensure this value is greater than 0.")
	}
	return result
}

func (r EventRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DATE_LAYOUT, r.Date)
}

func (r EventRequest) ParsedStartTime() (time.Time, error) {
	return time.Parse(TIME_LAYOUT, r.StartTime)
}

// Apply copies a validated request onto event.
func (r EventRequest) Apply(event *models.CleanupEvent) error {
	date, err := r.ParsedDate()
	if err != nil {
		return err
	}
	start, err := r.ParsedStartTime()
	if err != nil {
		return err
	}

	event.Name = strings.TrimSpace(r.Name)
	event.Place = models.Place(r.Place)
	event.SpecificLocation = strings.TrimSpace(r.SpecificLocation)
	event.Date = datatypes.Date(date)
	event.StartTime = datatypes.NewTime(start.Hour(), start.Minute(), 0, 0)
	event.DurationHours = r.DurationHours
	event.Points = r.Points
	event.MaxParticipants = r.MaxParticipants
	event.Description = strings.TrimSpace(r.Description)
	if r.IsActive != nil {
		event.IsActive = *r.IsActive
	} else if event.ID == uuid.Nil {
		event.IsActive = true
	}

	return nil
}

type SelectEventRequest struct {
	Event string `json:"event" form:"event"`
}

type AwardPointsRequest struct {
	Points *int   `json:"points"`
	Reason string `json:"reason" validate:"max=255"`
}

type AttendanceRequest struct {
	Attended bool `json:"attended"`
}

type PreviousEventsQuery struct {
	Query string `query:"q"`
	Date  string `query:"date"`
}

// ParsedDate returns nil for an empty or malformed filter, which is ignored.
func (q PreviousEventsQuery) ParsedDate() *time.Time {
	value := strings.TrimSpace(q.Date)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(DATE_LAYOUT, value)
	if err != nil {
		return nil
	}
	return &parsed
}
