package authController

import (
	"context"
	"errors"
	"strings"
	"time"

	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	INVALID_CREDENTIALS_MESSAGE       = "Invalid credentials. Please check your email/username and password."
	INVALID_ADMIN_CREDENTIALS_MESSAGE = "Invalid admin credentials"
	REGISTRATION_INVALID_MESSAGE      = "Registration failed. Please check the highlighted fields."
	REGISTRATION_FAILED_MESSAGE       = "Registration failed. Please try again later."
	REGISTRATION_SUCCESS_MESSAGE      = "Registration successful. You can now log in."
	LOGIN_LOCKED_MESSAGE              = "Too many failed login attempts. Please try again later."
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration failed")
)

// LoginThrottle is the subset of the throttle service login depends on.
type LoginThrottle interface {
	Check(ctx context.Context, identifier string) error
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

type SessionManager interface {
	SignInParticipant(ctx context.Context, session *types.Session, participant *Participant) error
	SignInStaff(ctx context.Context, session *types.Session, staff *StaffAccount) error
	Destroy(ctx context.Context, session *types.Session) error
}

type LoginResult struct {
	Kind     types.IdentityKind `json:"kind"`
	Message  string             `json:"message"`
	Redirect string             `json:"redirect"`
}

type AuthControllerInterface interface {
	Login(ctx context.Context, session *types.Session, request types.LoginRequest) (*LoginResult, error)
	AdminLogin(ctx context.Context, session *types.Session, request types.AdminLoginRequest) (*LoginResult, error)
	Register(ctx context.Context, request types.ParticipantRegistrationRequest) (*Participant, error)
	Logout(ctx context.Context, session *types.Session) error
}

type AuthController struct {
	participantRepo repositories.ParticipantRepository
	staffRepo       repositories.StaffAccountRepository
	throttle        LoginThrottle
	sessions        SessionManager
	tx              services.Transactor
	now             func() time.Time
	log             logger.Logger
}

func New(services services.Service, repos repositories.Repository) AuthControllerInterface {
	return &AuthController{
		participantRepo: repos.Participant,
		staffRepo:       repos.StaffAccount,
		throttle:        services.LoginThrottle,
		sessions:        services.Session,
		tx:              services.Transaction,
		now:             time.Now,
		log:             logger.New("authController"),
	}
}

// Login tries the staff account first and falls back to a participant email.
// Both failures produce the same error so callers cannot tell which one exists.
func (c *AuthController) Login(
	ctx context.Context,
	session *types.Session,
	request types.LoginRequest,
) (*LoginResult, error) {
	log := c.log.Function("Login").TraceFromContext(ctx)

	if err := types.Validate(INVALID_CREDENTIALS_MESSAGE, request).OrNil(); err != nil {
		return nil, err
	}

	identifier := strings.TrimSpace(request.Identifier)
	password := strings.TrimSpace(request.Password)

	if err := c.throttle.Check(ctx, identifier); err != nil {
		return nil, err
	}

	staff, err := c.authenticateStaff(ctx, identifier, password)
	if err != nil {
		return nil, log.Err("failed to authenticate staff", err)
	}

	if staff != nil {
		return c.completeStaffLogin(ctx, session, identifier, staff)
	}

	participant, err := c.participantRepo.GetByEmail(ctx, c.tx.DB(ctx), NormalizeEmail(identifier))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err("failed to look up participant", err)
	}

	if participant == nil || !participant.CheckPassword(password) {
		return nil, c.fail(ctx, identifier)
	}

	if err := c.sessions.SignInParticipant(ctx, session, participant); err != nil {
		return nil, log.Err("failed to sign in participant", err)
	}
	c.reset(ctx, identifier)

	log.Info("Participant signed in", "participantID", participant.ID)

	return &LoginResult{
		Kind:     types.IdentityParticipant,
		Message:  "Login successful! Select your event below.",
		Redirect: "/select-event",
	}, nil
}

func (c *AuthController) AdminLogin(
	ctx context.Context,
	session *types.Session,
	request types.AdminLoginRequest,
) (*LoginResult, error) {
	log := c.log.Function("AdminLogin").TraceFromContext(ctx)

	if err := types.Validate(INVALID_ADMIN_CREDENTIALS_MESSAGE, request).OrNil(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(request.Username)
	if err := c.throttle.Check(ctx, username); err != nil {
		return nil, err
	}

	staff, err := c.authenticateStaff(ctx, username, request.Password)
	if err != nil {
		return nil, log.Err("failed to authenticate staff", err)
	}

	if staff == nil {
		return nil, c.fail(ctx, username)
	}

	return c.completeStaffLogin(ctx, session, username, staff)
}

// Register creates a participant from the public sign up form. Persistence
// failures are logged and reported without their detail.
func (c *AuthController) Register(
	ctx context.Context,
	request types.ParticipantRegistrationRequest,
) (*Participant, error) {
	log := c.log.Function("Register").TraceFromContext(ctx)

	validation := types.Validate(REGISTRATION_INVALID_MESSAGE, request)

	participant := &Participant{}
	if err := request.Apply(participant); err != nil {
		validation.Add("birthdate", "Enter a valid date.")
	}

	if !validation.HasErrors() {
		conflicts, err := c.participantRepo.FindConflicts(ctx, c.tx.DB(ctx), participant)
		if err != nil {
			log.Er("failed to check participant conflicts", err)
			return nil, ErrRegistrationFailed
		}
		for field, message := range conflicts.Messages() {
			validation.Add(field, message)
		}
	}

	if err := validation.OrNil(); err != nil {
		return nil, err
	}

	if err := participant.SetPassword(strings.TrimSpace(request.Password)); err != nil {
		return nil, validation.AddPasswordError(err)
	}

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.participantRepo.Create(ctx, tx, participant)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			validation.Add("email", "An account with this email already exists.")
			return nil, validation
		}
		log.Er("failed to create participant", err, "email", participant.Email)
		return nil, ErrRegistrationFailed
	}

	log.Info("Participant registered", "participantID", participant.ID)
	return participant, nil
}

func (c *AuthController) Logout(ctx context.Context, session *types.Session) error {
	log := c.log.Function("Logout").TraceFromContext(ctx)

	if err := c.sessions.Destroy(ctx, session); err != nil {
		return log.Err("failed to destroy session", err)
	}

	return nil
}

func (c *AuthController) authenticateStaff(
	ctx context.Context,
	username string,
	password string,
) (*StaffAccount, error) {
	staff, err := c.staffRepo.GetByUsername(ctx, c.tx.DB(ctx), username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !staff.CanAccessAdmin() || !staff.CheckPassword(password) {
		return nil, nil
	}

	return staff, nil
}

func (c *AuthController) completeStaffLogin(
	ctx context.Context,
	session *types.Session,
	identifier string,
	staff *StaffAccount,
) (*LoginResult, error) {
	log := c.log.Function("completeStaffLogin").TraceFromContext(ctx)

	if err := c.sessions.SignInStaff(ctx, session, staff); err != nil {
		return nil, log.Err("failed to sign in staff", err)
	}
	c.reset(ctx, identifier)

	if err := c.staffRepo.TouchLastLogin(ctx, c.tx.DB(ctx), staff.ID, c.now()); err != nil {
		log.Warn("failed to record last login", "staffID", staff.ID, "error", err)
	}

	log.Info("Staff signed in", "staffID", staff.ID)

	return &LoginResult{
		Kind:     types.IdentityStaff,
		Message:  "Welcome back, admin!",
		Redirect: "/custom-admin",
	}, nil
}

func (c *AuthController) fail(ctx context.Context, identifier string) error {
	log := c.log.Function("fail").TraceFromContext(ctx)

	if err := c.throttle.RecordFailure(ctx, identifier); err != nil {
		log.Warn("failed to record login failure", "error", err)
	}

	return ErrInvalidCredentials
}

func (c *AuthController) reset(ctx context.Context, identifier string) {
	if err := c.throttle.Reset(ctx, identifier); err != nil {
		c.log.Function("reset").TraceFromContext(ctx).Warn("failed to reset login attempts", "error", err)
	}
}
