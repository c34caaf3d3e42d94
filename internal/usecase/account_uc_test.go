package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID uint
}

var _ domain.UserRepo = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = f.nextID
	f.nextID++
	f.users[strings.ToLower(u.Email)] = u
	return nil
}

func (f *fakeUserRepo) Save(ctx context.Context, u *domain.User) error {
	f.users[strings.ToLower(u.Email)] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	for k, u := range f.users {
		if u.ID == id {
			delete(f.users, k)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserRepo) ListCustomers(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range f.users {
		if u.RoleID != domain.RoleAdmin {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountCustomers(ctx context.Context) (int64, error) {
	list, _ := f.ListCustomers(ctx)
	return int64(len(list)), nil
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newFakeUserRepo()
	uc := &usecase.AccountUC{Users: users, Orders: newFakeOrderRepo()}

	u, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "Jordan@Example.com",
		Password: "Secret12",
		FullName: "Jordan Miles",
	})
	require.NoError(t, err)

	assert.Equal(t, "jordan@example.com", u.Email, "email is lowercased")
	assert.Equal(t, domain.RoleCustomer, u.RoleID)
	assert.NotEqual(t, "Secret12", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Secret12")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	uc := &usecase.AccountUC{Users: users, Orders: newFakeOrderRepo()}

	_, err := uc.Register(context.Background(), usecase.RegisterInput{Email: "a@b.com", Password: "Secret12", FullName: "First User"})
	require.NoError(t, err)
	_, err = uc.Register(context.Background(), usecase.RegisterInput{Email: "A@B.com", Password: "Secret12", FullName: "Second User"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	uc := &usecase.AccountUC{Users: newFakeUserRepo(), Orders: newFakeOrderRepo()}
	ctx := context.Background()

	cases := []usecase.RegisterInput{
		{Email: "a@b.com", Password: "Secret12", FullName: "X"},        // name too short
		{Email: "a@b.com", Password: "short1A", FullName: "Jordan M"},  // too short
		{Email: "a@b.com", Password: "alllowercase1", FullName: "Jordan M"}, // no upper
		{Email: "a@b.com", Password: "ALLUPPERCASE1", FullName: "Jordan M"}, // no lower
		{Email: "a@b.com", Password: "NoDigitsHere", FullName: "Jordan M"},  // no digit
	}
	for _, in := range cases {
		_, err := uc.Register(ctx, in)
		assert.Error(t, err, "input %+v should be rejected", in)
	}

	tooYoung := time.Now().AddDate(-10, 0, 0)
	_, err := uc.Register(ctx, usecase.RegisterInput{Email: "kid@b.com", Password: "Secret12", FullName: "Young Kid", DateOfBirth: &tooYoung})
	assert.Error(t, err)

	oldEnough := time.Now().AddDate(-20, 0, 0)
	_, err = uc.Register(ctx, usecase.RegisterInput{Email: "ok@b.com", Password: "Secret12", FullName: "Grown Up", DateOfBirth: &oldEnough})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	uc := &usecase.AccountUC{Users: users, Orders: newFakeOrderRepo()}
	ctx := context.Background()

	_, err := uc.Register(ctx, usecase.RegisterInput{Email: "a@b.com", Password: "Secret12", FullName: "Jordan Miles"})
	require.NoError(t, err)

	u, err := uc.Login(ctx, "a@b.com", "Secret12")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)

	_, err = uc.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "ghost@b.com", "Secret12")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "unknown email looks the same as a bad password")
}

func TestEmailExists(t *testing.T) {
	users := newFakeUserRepo()
	uc := &usecase.AccountUC{Users: users, Orders: newFakeOrderRepo()}
	ctx := context.Background()

	ok, err := uc.EmailExists(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uc.Register(ctx, usecase.RegisterInput{Email: "a@b.com", Password: "Secret12", FullName: "Jordan Miles"})
	require.NoError(t, err)

	ok, err = uc.EmailExists(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserRepo()
	uc := &usecase.AccountUC{Users: users, Orders: newFakeOrderRepo()}
	ctx := context.Background()

	u, err := uc.Register(ctx, usecase.RegisterInput{Email: "a@b.com", Password: "Secret12", FullName: "Jordan Miles"})
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, u.ID, "wrong", "Another12")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = uc.ChangePassword(ctx, u.ID, "Secret12", "weak")
	assert.Error(t, err)

	err = uc.ChangePassword(ctx, u.ID, "Secret12", "Another12")
	require.NoError(t, err)

	_, err = uc.Login(ctx, "a@b.com", "Another12")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserRepo()
	uc := &usecase.AccountUC{Users: users, Orders: newFakeOrderRepo()}
	ctx := context.Background()

	u, err := uc.Register(ctx, usecase.RegisterInput{Email: "a@b.com", Password: "Secret12", FullName: "Jordan Miles"})
	require.NoError(t, err)

	phone := "0123456789"
	pref := "running"
	updated, err := uc.UpdateProfile(ctx, u.ID, usecase.ProfileUpdate{
		FullName:           "Jordan A. Miles",
		PhoneNumber:        &phone,
		ShoppingPreference: &pref,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jordan A. Miles", updated.FullName)
	require.NotNil(t, updated.PhoneNumber)
	assert.Equal(t, phone, *updated.PhoneNumber)
}

func TestListOrdersFiltersByUser(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.orders = []*domain.Order{
		{ID: 1, UserID: 7, TotalAmount: 100, Status: domain.OrderStatusUnpaid},
		{ID: 2, UserID: 8, TotalAmount: 50, Status: domain.OrderStatusPaid},
		{ID: 3, UserID: 7, TotalAmount: 75, Status: domain.OrderStatusPaid},
	}
	uc := &usecase.AccountUC{Users: newFakeUserRepo(), Orders: orders}

	got, err := uc.ListOrders(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(3), got[1].ID)
}
