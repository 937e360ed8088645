package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository/mocks"
	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

func TestNewAuthService_EmptySecret(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)

	_, err := service.NewAuthService(mockUserRepo, "", 24)

	require.Error(t, err, "an empty JWT secret must refuse to construct")
}

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService, err := service.NewAuthService(mockUserRepo, "very-secret-key", 1)
	require.NoError(t, err)

	ctx := context.Background()
	username := "newbie"
	password := "StrongPass123"

	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		// MatchedBy can be re-evaluated by AssertExpectations after
		// Register clears user.Password on the same pointer, so the
		// matcher must be a pure predicate rather than assert inline.
		return user.Username == username &&
			user.Email == "newbie@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
	})).
		Run(func(args mock.Arguments) {
			userArg := args.Get(1).(*domain.User)
			userArg.ID = 5
			userArg.CreatedAt = time.Now().Add(-time.Second)
			userArg.UpdatedAt = time.Now().Add(-time.Second)
		}).
		Return(nil).
		Once()

	// Act
	registeredUser, err := authService.Register(ctx, username, "New Bie", "newbie@example.com", password)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, registeredUser)
	assert.Equal(t, uint(5), registeredUser.ID)
	assert.Equal(t, username, registeredUser.Username)
	assert.Empty(t, registeredUser.Password, "password must be cleared before returning")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_Validation(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "secret", 1)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		fullName string
		email    string
		password string
	}{
		{"short username", "ab", "Somebody", "a@b.co", "password"},
		{"short name", "validuser", "ab", "a@b.co", "password"},
		{"bad email", "validuser", "Somebody", "not-an-email", "password"},
		{"short password", "validuser", "Somebody", "a@b.co", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authService.Register(ctx, tc.username, tc.fullName, tc.email, tc.password)

			require.Error(t, err)
			assert.True(t, errors.Is(err, service.ErrValidation))
		})
	}
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEntry(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "secret", 1)
	ctx := context.Background()

	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).
		Return(repository.ErrDuplicateEntry).Once()

	// Act
	_, err := authService.Register(ctx, "takenname", "Taken Name", "taken@test.com", "password")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "test-secret", 24)
	ctx := context.Background()
	username := "testuser"
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: username, Password: string(hashedPassword)}

	mockUserRepo.On("FindByUsername", ctx, username).Return(userInDb, nil).Once()

	// Act
	token, err := authService.Login(ctx, username, password)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "test-secret", 24)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "nonexistent").
		Return(nil, repository.ErrUserNotFound).Once()

	token, err := authService.Login(ctx, "nonexistent", "password")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "test-secret", 24)
	ctx := context.Background()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: "testuser", Password: string(hashedPassword)}

	mockUserRepo.On("FindByUsername", ctx, "testuser").Return(userInDb, nil).Once()

	token, err := authService.Login(ctx, "testuser", "wrongpassword")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_VerifyToken_Roundtrip(t *testing.T) {
	// Arrange: a token issued by Login must verify back to the same id.
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "roundtrip-secret", 24)
	ctx := context.Background()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 42, Username: "roundtrip", Password: string(hashedPassword)}
	mockUserRepo.On("FindByUsername", ctx, "roundtrip").Return(userInDb, nil).Once()

	token, err := authService.Login(ctx, "roundtrip", "password123")
	require.NoError(t, err)

	// Act
	userID, err := authService.VerifyToken(token)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "one-secret", 24)

	cases := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authService.VerifyToken(tc.token)

			require.Error(t, err)
			assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
		})
	}
}

func TestAuthService_VerifyToken_WrongSecret(t *testing.T) {
	// A token signed by one instance must not verify under another key.
	mockUserRepo := new(mocks.UserRepository)
	issuer, _ := service.NewAuthService(mockUserRepo, "issuer-secret", 24)
	verifier, _ := service.NewAuthService(mockUserRepo, "different-secret", 24)

	ctx := context.Background()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 7, Username: "alice", Password: string(hashedPassword)}
	mockUserRepo.On("FindByUsername", ctx, "alice").Return(userInDb, nil).Once()

	token, err := issuer.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
}
