package services

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/repository"
	"github.com/Govind-619/PayGate/utils"
)

// SignupInput is the raw signup form.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password1 string
	Password2 string
}

// AccountService is the account directory: signup, credential checks and
// resolving a session's user id.
type AccountService struct {
	users repository.UserRepository
	now   func() time.Time
}

func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{users: users, now: time.Now}
}

// Signup creates an account. The email is also the username.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	first := utils.SanitizeString(in.FirstName)
	last := utils.SanitizeString(in.LastName)
	email := utils.NormalizeEmail(in.Email)

	if first == "" || last == "" || email == "" || in.Password1 == "" || in.Password2 == "" {
		return nil, utils.ValidationError(utils.ErrAllFieldsRequired, nil)
	}
	if in.Password1 != in.Password2 {
		return nil, utils.ValidationError(utils.ErrPasswordsDoNotMatch, nil)
	}
	if valid, msg := utils.ValidateEmail(email); !valid {
		return nil, utils.ValidationError(msg, nil)
	}
	if valid, msg := utils.ValidatePassword(in.Password1); !valid {
		return nil, utils.ValidationError(msg, nil)
	}
	for field, name := range map[string]string{"First name": first, "Last name": last} {
		if valid, msg := utils.ValidateName(field, name); !valid {
			return nil, utils.ValidationError(msg, nil)
		}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		utils.LogInfo("Signup rejected - email already registered: %s", email)
		return nil, utils.ValidationError(utils.ErrEmailRegistered, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.InternalError("Failed to create account", err)
	}

	hash, err := utils.HashPassword(in.Password1)
	if err != nil {
		return nil, utils.InternalError("Failed to create account", err)
	}

	user := &models.User{
		Username:  email,
		Email:     email,
		Password:  hash,
		FirstName: first,
		LastName:  last,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent signup with the same email lost the race to the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ValidationError(utils.ErrEmailRegistered, nil)
		}
		return nil, utils.InternalError("Failed to create account", err)
	}

	utils.LogInfo("Account created for %s (user ID: %d)", email, user.ID)
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, utils.ValidationError("Email and password required.", nil)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.LogInfo("Login attempt failed - user not found: %s", email)
			return nil, utils.UnauthorizedError(utils.ErrInvalidCredentials, nil)
		}
		return nil, utils.InternalError("Failed to log in", err)
	}
	if !utils.CheckPassword(password, user.Password) {
		utils.LogInfo("Login attempt failed - invalid password for user: %s", email)
		return nil, utils.UnauthorizedError(utils.ErrInvalidCredentials, nil)
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		utils.LogWarn("Failed to update last login time for user %d: %v", user.ID, err)
	} else {
		user.LastLoginAt = &now
	}
	return user, nil
}

// CurrentUser resolves a session's user id.
func (s *AccountService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, utils.UnauthorizedError(utils.ErrLoginRequired, nil)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.UnauthorizedError(utils.ErrLoginRequired, nil)
		}
		return nil, utils.InternalError("Failed to load user", err)
	}
	return user, nil
}
