package service

import (
	"context"
	"testing"

	"dairymart/internal/config"
	"dairymart/internal/dto"
	"dairymart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAccountService(t *testing.T) (*gorm.DB, AccountService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAccountService(repository.NewUserRepository(db), config.JWT{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})
	return db, svc
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAccountService(t)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Asha Shrestha",
		Email:    "asha@test.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "asha@test.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@test.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	token, err := jwt.Parse(login.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(resp.User.ID), claims["sub"])
	assert.Equal(t, false, claims["admin"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAccountService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "First",
		Email:    "dup@test.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Second",
		Email:    "dup@test.com",
		Password: "othersecret",
	})
	var berr *BusinessError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 409, berr.Status)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newAccountService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Asha Shrestha",
		Email:    "asha@test.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@test.com",
		Password: "wrong",
	})
	var berr *BusinessError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 400, berr.Status)
	assert.Equal(t, "invalid email or password", berr.Message)

	// Unknown email yields the same message, never revealing which part failed.
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@test.com",
		Password: "supersecret",
	})
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "invalid email or password", berr.Message)
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	db, svc := newAccountService(t)
	user := seedUser(t, db, "addr@test.com")

	_, err := svc.CreateAddress(context.Background(), user.ID, dto.AddressRequest{
		Name: "Home", Phone: "9800000001", Address: "Lazimpat", City: "Kathmandu", IsDefault: true,
	})
	require.NoError(t, err)

	second, err := svc.CreateAddress(context.Background(), user.ID, dto.AddressRequest{
		Name: "Office", Phone: "9800000002", Address: "Baneshwor", City: "Kathmandu", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	addresses, err := svc.ListAddresses(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)

	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}
