package services

import (
	"context"
	"errors"
	"time"

	"ecobayanihan/config"
	"ecobayanihan/internal/database"
	"ecobayanihan/internal/models"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SESSION_COOKIE_NAME  = "eco_session"
	SESSION_CACHE_PREFIX = "session"
	POINTS_NOTICE_PREFIX = "points_added"
	SESSION_TOKEN_ISSUER = "ecobayanihan"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionStore persists sessions by id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*types.Session, error)
	Set(ctx context.Context, session *types.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// NoticeStore keeps the one-shot points notice for a participant email.
type NoticeStore interface {
	SetPointsNotice(ctx context.Context, email string, notice types.PointsNotice, ttl time.Duration) error
	PopPointsNotice(ctx context.Context, email string) (*types.PointsNotice, error)
}

type SessionService struct {
	store   SessionStore
	notices NoticeStore
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	log     logger.Logger
}

func NewSessionService(store SessionStore, notices NoticeStore, config config.Config) *SessionService {
	return &SessionService{
		store:   store,
		notices: notices,
		secret:  []byte(config.SessionSecret),
		ttl:     config.SessionTTL(),
		now:     time.Now,
		log:     logger.New("SessionService"),
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Load resolves a cookie token to its session. Missing, expired or forged
// tokens yield a fresh anonymous session that is only stored once it changes.
func (s *SessionService) Load(ctx context.Context, token string) *types.Session {
	log := s.log.Function("Load").TraceFromContext(ctx)

	if token == "" {
		return s.newSession()
	}

	sessionID, err := s.ParseToken(token)
	if err != nil {
		log.Debug("discarding session token", "error", err)
		return s.newSession()
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		log.Er("failed to load session", err, "sessionID", sessionID)
		return s.newSession()
	}

	if session == nil {
		return s.newSession()
	}

	session.MarkClean()
	return session
}

// Save persists the session when it changed and returns the cookie token.
func (s *SessionService) Save(ctx context.Context, session *types.Session) (string, error) {
	log := s.log.Function("Save").TraceFromContext(ctx)

	if session.Dirty() {
		if err := s.store.Set(ctx, session, s.ttl); err != nil {
			return "", log.Err("failed to save session", err, "sessionID", session.ID)
		}
		session.MarkClean()
	}

	return s.SignToken(session.ID)
}

// Destroy drops the stored session so its cookie no longer resolves.
func (s *SessionService) Destroy(ctx context.Context, session *types.Session) error {
	log := s.log.Function("Destroy").TraceFromContext(ctx)

	if err := s.store.Delete(ctx, session.ID); err != nil {
		return log.Err("failed to destroy session", err, "sessionID", session.ID)
	}
	session.MarkDestroyed()

	return nil
}

// Rotate moves the session to a fresh id, used on every successful login.
func (s *SessionService) Rotate(ctx context.Context, session *types.Session) error {
	log := s.log.Function("Rotate").TraceFromContext(ctx)

	if err := s.store.Delete(ctx, session.ID); err != nil {
		return log.Err("failed to drop previous session", err, "sessionID", session.ID)
	}

	fresh := s.newSession()
	session.ID = fresh.ID
	session.CreatedAt = fresh.CreatedAt
	return nil
}

func (s *SessionService) SignInParticipant(ctx context.Context, session *types.Session, participant *models.Participant) error {
	if err := s.Rotate(ctx, session); err != nil {
		return err
	}
	session.SignInParticipant(participant.ID, participant.Email, s.now())
	return nil
}

func (s *SessionService) SignInStaff(ctx context.Context, session *types.Session, staff *models.StaffAccount) error {
	if err := s.Rotate(ctx, session); err != nil {
		return err
	}
	session.SignInStaff(staff.ID, staff.Username, s.now())
	return nil
}

func (s *SessionService) SetPointsNotice(ctx context.Context, email string, notice types.PointsNotice) error {
	log := s.log.Function("SetPointsNotice").TraceFromContext(ctx)

	if err := s.notices.SetPointsNotice(ctx, models.NormalizeEmail(email), notice, s.ttl); err != nil {
		return log.Err("failed to store points notice", err)
	}

	return nil
}

func (s *SessionService) PopPointsNotice(ctx context.Context, email string) (*types.PointsNotice, error) {
	log := s.log.Function("PopPointsNotice").TraceFromContext(ctx)

	notice, err := s.notices.PopPointsNotice(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, log.Err("failed to pop points notice", err)
	}

	return notice, nil
}

func (s *SessionService) SignToken(sessionID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    SESSION_TOKEN_ISSUER,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionService) ParseToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(SESSION_TOKEN_ISSUER),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidSessionToken, err)
	}

	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSessionToken
	}

	return claims.Subject, nil
}

func (s *SessionService) newSession() *types.Session {
	return types.NewSession(uuid.NewString(), s.now())
}

type valkeySessionStore struct {
	cache database.CacheClient
}

func NewValkeySessionStore(cache database.CacheClient) SessionStore {
	return &valkeySessionStore{cache: cache}
}

func (v *valkeySessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	var session types.Session
	found, err := database.NewCacheBuilder(v.cache, id).
		WithContext(ctx).
		WithHash(SESSION_CACHE_PREFIX).
		Get(&session)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	return &session, nil
}

func (v *valkeySessionStore) Set(ctx context.Context, session *types.Session, ttl time.Duration) error {
	return database.NewCacheBuilder(v.cache, session.ID).
		WithContext(ctx).
		WithHash(SESSION_CACHE_PREFIX).
		WithStruct(session).
		WithTTL(ttl).
		Set()
}

func (v *valkeySessionStore) Delete(ctx context.Context, id string) error {
	return database.NewCacheBuilder(v.cache, id).
		WithContext(ctx).
		WithHash(SESSION_CACHE_PREFIX).
		Delete()
}

type valkeyNoticeStore struct {
	cache database.CacheClient
}

func NewValkeyNoticeStore(cache database.CacheClient) NoticeStore {
	return &valkeyNoticeStore{cache: cache}
}

func (v *valkeyNoticeStore) SetPointsNotice(
	ctx context.Context,
	email string,
	notice types.PointsNotice,
	ttl time.Duration,
) error {
	return database.NewCacheBuilder(v.cache, email).
		WithContext(ctx).
		WithHash(POINTS_NOTICE_PREFIX).
		WithStruct(notice).
		WithTTL(ttl).
		Set()
}

func (v *valkeyNoticeStore) PopPointsNotice(ctx context.Context, email string) (*types.PointsNotice, error) {
	var notice types.PointsNotice
	found, err := database.NewCacheBuilder(v.cache, email).
		WithContext(ctx).
		WithHash(POINTS_NOTICE_PREFIX).
		GetDel(&notice)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	return &notice, nil
}
