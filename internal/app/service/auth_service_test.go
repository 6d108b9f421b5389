package service

import (
	"context"
	"testing"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB, *memoryBlacklist) {
	testDB := setupTestDB(t)
	blacklist := newMemoryBlacklist()

	authService := NewAuthService(
		testDB,
		repository.NewUserRepository(testDB),
		repository.NewLocationRepository(testDB),
		blacklist,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	return authService, testDB, blacklist
}

func TestAuthService_Register(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		userType model.UserType
		wantErr  error
	}{
		{
			name:     "Valid farmer registration",
			email:    "Ahmet@Example.com",
			userType: model.UserTypeFarmer,
		},
		{
			name:     "Duplicate email differs only in case",
			email:    "ahmet@example.com",
			userType: model.UserTypeBuyer,
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Unknown user type",
			email:    "mehmet@example.com",
			userType: model.UserType("admin"),
			wantErr:  ErrInvalidUserType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(RegisterInput{
				Name:     "Ahmet",
				Email:    tt.email,
				Password: "password123",
				UserType: tt.userType,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.Equal(t, "ahmet@example.com", user.Email)
			assert.Equal(t, tt.userType, user.UserType)
			assert.NotEqual(t, "password123", user.PasswordHash)
			assert.Nil(t, user.Rating)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

func TestAuthService_RegisterResolvesLocation(t *testing.T) {
	authService, testDB, _ := setupAuthServiceTest(t)

	existing := &model.Location{Province: "Konya", District: "Ereğli", Latitude: 37.5, Longitude: 34.0}
	require.NoError(t, testDB.Create(existing).Error)

	t.Run("links the existing triple", func(t *testing.T) {
		user, _, err := authService.Register(RegisterInput{
			Name: "Ayşe", Email: "ayse@example.com", Password: "password123",
			UserType: model.UserTypeFarmer, Province: "Konya", District: "Ereğli",
		})
		require.NoError(t, err)
		require.NotNil(t, user.LocationID)
		assert.Equal(t, existing.ID, *user.LocationID)
	})

	t.Run("creates a location from coordinates", func(t *testing.T) {
		user, _, err := authService.Register(RegisterInput{
			Name: "Fatma", Email: "fatma@example.com", Password: "password123",
			UserType: model.UserTypeFarmer, Province: "Konya", District: "Karapınar", Village: "Hotamış",
			Latitude: floatPtr(37.7), Longitude: floatPtr(33.5),
		})
		require.NoError(t, err)
		require.NotNil(t, user.LocationID)

		var location model.Location
		require.NoError(t, testDB.First(&location, *user.LocationID).Error)
		assert.Equal(t, "Hotamış", location.Village)
		assert.InDelta(t, 37.7, location.Latitude, 1e-9)
	})

	t.Run("unknown triple without coordinates stays unlinked", func(t *testing.T) {
		user, _, err := authService.Register(RegisterInput{
			Name: "Ali", Email: "ali@example.com", Password: "password123",
			UserType: model.UserTypeFarmer, Province: "Aksaray", District: "Merkez",
		})
		require.NoError(t, err)
		assert.Nil(t, user.LocationID)
		assert.Equal(t, "Aksaray", user.Province)
	})
}

func TestAuthService_Login(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{
		Name: "Ahmet", Email: "login@example.com", Password: "password123", UserType: model.UserTypeBuyer,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"Valid credentials", "login@example.com", "password123", nil},
		{"Email is case insensitive", "LOGIN@example.com", "password123", nil},
		{"Wrong password", "login@example.com", "wrong", ErrInvalidCredentials},
		{"Unknown email", "nobody@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "login@example.com", user.Email)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, string(model.UserTypeBuyer), claims.Role)
			assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	authService, _, blacklist := setupAuthServiceTest(t)
	ctx := context.Background()

	_, tokens, err := authService.Register(RegisterInput{
		Name: "Ahmet", Email: "refresh@example.com", Password: "password123", UserType: model.UserTypeBuyer,
	})
	require.NoError(t, err)

	_, err = authService.RefreshToken(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot be refreshed")

	rotated, err := authService.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	old, err := util.ValidateToken(tokens.RefreshToken, testJWTSecret)
	require.NoError(t, err)
	revoked, _ := blacklist.IsTokenBlacklisted(ctx, old.ID)
	assert.True(t, revoked)

	_, err = authService.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "a rotated refresh token is single use")
}

func TestAuthService_Logout(t *testing.T) {
	authService, _, blacklist := setupAuthServiceTest(t)
	ctx := context.Background()

	_, tokens, err := authService.Register(RegisterInput{
		Name: "Ahmet", Email: "logout@example.com", Password: "password123", UserType: model.UserTypeFarmer,
	})
	require.NoError(t, err)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, claims))
	revoked, _ := blacklist.IsTokenBlacklisted(ctx, claims.ID)
	assert.True(t, revoked)
	assert.Greater(t, blacklist.ids[claims.ID], time.Duration(0))

	assert.ErrorIs(t, authService.Logout(ctx, nil), ErrInvalidToken)
}

func TestAuthService_WithoutBlacklist(t *testing.T) {
	testDB := setupTestDB(t)
	authService := NewAuthService(testDB, repository.NewUserRepository(testDB), repository.NewLocationRepository(testDB),
		nil, testJWTSecret, time.Minute, time.Hour)

	_, tokens, err := authService.Register(RegisterInput{
		Name: "Ahmet", Email: "noredis@example.com", Password: "password123", UserType: model.UserTypeBuyer,
	})
	require.NoError(t, err)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.NoError(t, authService.Logout(context.Background(), claims))

	_, err = authService.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestUserService_Profile(t *testing.T) {
	testDB := setupTestDB(t)
	userService := NewUserService(repository.NewUserRepository(testDB))

	location := &model.Location{Province: "İzmir", District: "Ödemiş", Village: "Birgi"}
	require.NoError(t, testDB.Create(location).Error)

	farmer := createUser(t, testDB, "farmer", model.UserTypeFarmer)
	require.NoError(t, testDB.Model(farmer).Update("location_id", location.ID).Error)
	createUser(t, testDB, "buyer", model.UserTypeBuyer)

	t.Run("address falls back to the linked location", func(t *testing.T) {
		user, err := userService.GetUser(farmer.ID)
		require.NoError(t, err)
		assert.Equal(t, "İzmir", user.Province)
		assert.Equal(t, "Ödemiş", user.District)
		assert.Equal(t, "Birgi", user.Village)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := userService.GetUser(9999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("list by type", func(t *testing.T) {
		farmerType := model.UserTypeFarmer
		farmers, err := userService.ListUsers(&farmerType)
		require.NoError(t, err)
		require.Len(t, farmers, 1)
		assert.Equal(t, farmer.ID, farmers[0].ID)

		all, err := userService.ListUsers(nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		updated, err := userService.UpdateProfile(farmer.ID, UpdateProfileInput{
			PhoneNumber: "0555 111 22 33",
			Village:     "Bademli",
		})
		require.NoError(t, err)
		assert.Equal(t, "farmer", updated.Name)
		assert.Equal(t, "0555 111 22 33", updated.PhoneNumber)
		assert.Equal(t, "Bademli", updated.Village)
		assert.Equal(t, "İzmir", updated.Province)
	})
}
