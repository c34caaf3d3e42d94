package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/strideshop/stride/internal/domain"
)

var fullNameRe = regexp.MustCompile(`^[\p{L}][\p{L} .'-]{1,49}$`)

type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	DateOfBirth *time.Time
}

type ProfileUpdate struct {
	FullName           string
	PhoneNumber        *string
	Address            *string
	Gender             *string
	DateOfBirth        *time.Time
	AvatarURL          *string
	ShoppingPreference *string
}

type AccountUC struct {
	Users  domain.UserRepo
	Orders domain.OrderRepo
}

// Register creates a customer account. The password is stored only as a
// bcrypt hash.
func (uc *AccountUC) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateFullName(in.FullName); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateDateOfBirth(in.DateOfBirth); err != nil {
		return nil, err
	}

	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		RoleID:       domain.RoleCustomer,
		DateOfBirth:  in.DateOfBirth,
	}
	if err := uc.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EmailExists backs the two-step login form: first the email, then the
// password prompt.
func (uc *AccountUC) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := uc.Users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (uc *AccountUC) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := uc.Users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (uc *AccountUC) Get(ctx context.Context, id uint) (*domain.User, error) {
	return uc.Users.FindByID(ctx, id)
}

func (uc *AccountUC) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*domain.User, error) {
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		if err := validateFullName(in.FullName); err != nil {
			return nil, err
		}
		u.FullName = strings.TrimSpace(in.FullName)
	}
	if in.DateOfBirth != nil {
		if err := validateDateOfBirth(in.DateOfBirth); err != nil {
			return nil, err
		}
		u.DateOfBirth = in.DateOfBirth
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = in.PhoneNumber
	}
	if in.Address != nil {
		u.Address = in.Address
	}
	if in.Gender != nil {
		u.Gender = in.Gender
	}
	if in.AvatarURL != nil {
		u.AvatarURL = in.AvatarURL
	}
	if in.ShoppingPreference != nil {
		u.ShoppingPreference = in.ShoppingPreference
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *AccountUC) ChangePassword(ctx context.Context, id uint, current, next string) error {
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return uc.Users.Save(ctx, u)
}

// Delete removes the account itself. Orders stay: they reference the user
// id only and keep their own notification email.
func (uc *AccountUC) Delete(ctx context.Context, id uint) error {
	return uc.Users.Delete(ctx, id)
}

func (uc *AccountUC) ListOrders(ctx context.Context, userID uint) ([]domain.Order, error) {
	return uc.Orders.ListByUser(ctx, userID)
}

func validateFullName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 50 || !fullNameRe.MatchString(name) {
		return errors.New("full name must be 2-50 letters")
	}
	return nil
}

// validatePassword requires 6-50 chars with at least one upper, one lower
// and one digit.
func validatePassword(pw string) error {
	if len(pw) < 6 || len(pw) > 50 {
		return errors.New("password must be 6-50 characters")
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return errors.New("password needs an upper case letter, a lower case letter and a digit")
	}
	return nil
}

func validateDateOfBirth(dob *time.Time) error {
	if dob == nil {
		return nil
	}
	if dob.After(time.Now().AddDate(-13, 0, 0)) {
		return errors.New("you must be at least 13 years old")
	}
	return nil
}
