package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/repositories"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect credentials")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, name, email, passwordHash string) (*models.UserDB, error)
}

// UserCache caches user records by id.
type UserCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	Set(ctx context.Context, user *models.UserDB) error
}

// TokenIssuer defines an interface for issuing auth tokens.
type TokenIssuer interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
}

// EventWriter defines a Kafka writer abstraction for signup events.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// signupEvent is published to Kafka after a successful registration.
type signupEvent struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

// AuthService handles registration, login and profile lookup.
type AuthService struct {
	reader UserReader
	writer UserWriter
	cache  UserCache
	tokens TokenIssuer
	events EventWriter
}

// NewAuthService creates a new AuthService instance. Cache and events
// are optional; nil disables the corresponding feature.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	cache UserCache,
	tokens TokenIssuer,
	events EventWriter,
) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		cache:  cache,
		tokens: tokens,
		events: events,
	}
}

// Register creates a new user and returns an auth token for it.
func (svc *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return "", err
	}
	if existing != nil {
		return "", ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", err
	}

	user, err := svc.writer.Save(ctx, name, email, string(hashedPassword))
	if err != nil {
		// Two concurrent registrations can pass the existence check above;
		// the unique index decides the winner.
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return "", ErrEmailAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return "", err
	}

	svc.publishSignup(ctx, user)

	token, err := svc.tokens.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}
	return token, nil
}

// Login authenticates a user and returns an auth token.
// An unknown email and a wrong password return the same error so the
// response does not reveal whether the email is registered.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := svc.tokens.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}
	return token, nil
}

// GetUser returns the user record for the given id, or nil when the
// record no longer exists.
func (svc *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	if svc.cache != nil {
		if user, err := svc.cache.Get(ctx, userID); err == nil && user != nil {
			return user, nil
		}
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user by id", "userID", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, user); err != nil {
			logger.Log.Warnw("failed to cache user", "userID", userID, "err", err)
		}
	}
	return user, nil
}

// publishSignup publishes a signup event to Kafka. Failures are logged
// and never fail the registration.
func (svc *AuthService) publishSignup(ctx context.Context, user *models.UserDB) {
	if svc.events == nil {
		return
	}

	data, err := json.Marshal(signupEvent{
		UserID:    user.UserID.String(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Unix(),
	})
	if err != nil {
		logger.Log.Errorw("failed to marshal signup event", "userID", user.UserID, "err", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(user.UserID.String()),
		Value: data,
	}
	if err := svc.events.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish signup event", "userID", user.UserID, "err", err)
	}
}
