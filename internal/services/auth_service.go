package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"brutarie/internal/email"
	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors surfaced by the account lifecycle. The login failures carry
// distinct user-facing messages but none of them reveals whether an account
// exists.
var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccountBlocked          = errors.New("your account has been blocked, contact the administrator for more information")
	ErrEmailNotConfirmed       = errors.New("please confirm your email first")
	ErrUsernameTaken           = errors.New("username already taken")
	ErrEmailRegistered         = errors.New("email already registered")
	ErrInvalidConfirmationLink = errors.New("invalid confirmation link")
)

// EmailPublisher queues an outbound email for asynchronous delivery.
type EmailPublisher interface {
	PublishEmailRequested(msg email.Message) error
}

// AuthService handles registration, email confirmation, login and password
// management.
type AuthService struct {
	userRepo  repositories.UserRepository
	publisher EmailPublisher
	validate  *validator.Validate
	jwtSecret []byte
	baseURL   string
	emailFrom string

	rememberDuration time.Duration
	sessionDuration  time.Duration
}

// NewAuthService creates a new AuthService. The publisher may be nil, in
// which case confirmation emails are skipped with a log line; registration
// itself never fails on email problems.
func NewAuthService(userRepo repositories.UserRepository, publisher EmailPublisher, jwtSecret, baseURL, emailFrom string) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		publisher:        publisher,
		validate:         validation.New(),
		jwtSecret:        []byte(jwtSecret),
		baseURL:          baseURL,
		emailFrom:        emailFrom,
		rememberDuration: 24 * time.Hour, // "remember me" sessions
		sessionDuration:  30 * time.Minute,
	}
}

// RegisterRequest is the typed payload for account registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,username_chars"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name" validate:"required,first_name_chars"`
	LastName        string `json:"last_name" validate:"required,last_name_chars"`
	BirthDate       string `json:"birth_date" validate:"required"` // YYYY-MM-DD
	PhoneNumber     string `json:"phone_number" validate:"required,phone_number"`
	Sex             string `json:"sex" validate:"required,oneof=M F"`
	Country         string `json:"country" validate:"required"`
	State           string `json:"state" validate:"required"`
	City            string `json:"city" validate:"required"`
	Address         string `json:"address" validate:"required,min=5"`
}

// Register creates a new unconfirmed account, generates its confirmation code
// and queues the confirmation email. A failure to queue or deliver the email
// is logged and does not fail the registration.
func (s *AuthService) Register(req RegisterRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validation.Collect(err)
	}
	if req.Password != req.ConfirmPassword {
		return nil, validation.FieldErrors{validation.NonFieldKey: "The two password fields didn't match."}
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, validation.FieldErrors{"birth_date": "Enter a valid date (YYYY-MM-DD)."}
	}

	if existing, err := s.userRepo.GetByUsername(req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q: %w", req.Username, ErrUsernameTaken)
	}
	if existing, err := s.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %q: %w", req.Email, ErrEmailRegistered)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code := uuid.New().String()
	user := &models.User{
		Username:         req.Username,
		Email:            req.Email,
		Password:         string(hashedPassword),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		BirthDate:        birthDate,
		PhoneNumber:      req.PhoneNumber,
		Sex:              req.Sex,
		Country:          req.Country,
		State:            req.State,
		City:             req.City,
		Address:          req.Address,
		ConfirmationCode: &code,
		EmailConfirmed:   false,
		DateJoined:       time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.sendConfirmationEmail(user)
	return user, nil
}

// sendConfirmationEmail queues the confirmation mail for a fresh account.
// Errors are logged only; the cleanup job eventually removes accounts whose
// mail never arrived.
func (s *AuthService) sendConfirmationEmail(user *models.User) {
	if user.EmailConfirmed || user.ConfirmationCode == nil {
		return
	}
	if s.publisher == nil {
		log.Printf("No email publisher configured, confirmation email for %s skipped", user.Username)
		return
	}
	link := fmt.Sprintf("%s/api/v1/auth/confirm_email/%s", s.baseURL, *user.ConfirmationCode)
	msg := email.Message{
		Subject: "Confirm Your Email Address",
		Body: fmt.Sprintf("Hello %s,\n\nPlease confirm your email address by following this link:\n%s\n",
			user.FullName(), link),
		From: s.emailFrom,
		To:   []string{user.Email},
	}
	if err := s.publisher.PublishEmailRequested(msg); err != nil {
		log.Printf("Failed to queue confirmation email for %s: %v", user.Username, err)
	}
}

// ConfirmEmail marks the account matching the code as confirmed. Confirming
// an already confirmed account reports success with alreadyConfirmed=true and
// does not touch the record. An unknown code mutates nothing.
func (s *AuthService) ConfirmEmail(code string) (alreadyConfirmed bool, err error) {
	user, err := s.userRepo.GetByConfirmationCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrInvalidConfirmationLink
		}
		return false, fmt.Errorf("failed to look up confirmation code: %w", err)
	}
	if user.EmailConfirmed {
		return true, nil
	}
	user.EmailConfirmed = true
	if err := s.userRepo.Update(user); err != nil {
		return false, fmt.Errorf("failed to confirm email: %w", err)
	}
	return false, nil
}

// Login authenticates a user and returns a JWT token. Blocked and unconfirmed
// accounts never authenticate, each with its own message. With rememberMe the
// token lives 24 hours, otherwise it is short-lived.
func (s *AuthService) Login(username, password string, rememberMe bool) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if user.Blocked {
		return "", ErrAccountBlocked
	}
	if !user.EmailConfirmed {
		return "", ErrEmailNotConfirmed
	}

	duration := s.sessionDuration
	if rememberMe {
		duration = s.rememberDuration
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetUser loads a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ChangePassword replaces the password of an authenticated user after
// verifying the current one.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return validation.FieldErrors{"old_password": "Your old password was entered incorrectly."}
	}
	if len(newPassword) < 8 {
		return validation.FieldErrors{"new_password": "Must be at least 8 characters long."}
	}
	if newPassword != confirmPassword {
		return validation.FieldErrors{validation.NonFieldKey: "The two password fields didn't match."}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}
