package service

import (
	"testing"
	"time"

	"albumrank/internal/config"
	"albumrank/internal/microservices/http-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired() error {
	args := m.Called()
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestAuthRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register("testuser", "password123", "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@example.com", user.Email)
	// stored password must be a hash, never the plaintext
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	existingUser := &models.User{Username: "testuser"}
	mockUserRepo.On("FindByUsername", "testuser").Return(existingUser, nil)

	user, err := authService.Register("testuser", "password123", "test@example.com")

	assert.Error(t, err)
	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	existingUser := &models.User{Email: "test@example.com"}
	mockUserRepo.On("FindByUsername", "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existingUser, nil)

	user, err := authService.Register("testuser", "password123", "test@example.com")

	assert.Error(t, err)
	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     "user",
	}

	mockUserRepo.On("FindByUsername", "testuser").Return(user, nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, returnedUser, err := authService.Login("testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, user.Username, returnedUser.Username)
	mockUserRepo.AssertExpectations(t)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestAuthLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Password: string(hashedPassword),
	}

	mockUserRepo.On("FindByUsername", "testuser").Return(user, nil)

	accessToken, refreshToken, returnedUser, err := authService.Login("testuser", "wrongpassword")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)
	assert.Nil(t, returnedUser)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", "nonexistent").Return(nil, gorm.ErrRecordNotFound)

	accessToken, refreshToken, user, err := authService.Login("nonexistent", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestValidateToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	cfg := testAuthConfig()
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, cfg)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-id",
		"username": "testuser",
		"role":     "user",
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	})
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	claims, err := authService.ValidateToken(tokenString)

	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	cfg := testAuthConfig()
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, cfg)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-id",
		"username": "testuser",
		"exp":      time.Now().Add(-1 * time.Hour).Unix(),
		"type":     "access",
	})
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	claims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrExpiredToken, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	claims, err := authService.ValidateToken("invalid.token.here")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-id",
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
		"type":    "access",
	})
	tokenString, _ := token.SignedString([]byte("other-secret"))

	claims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestValidateToken_RejectsRefreshType(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	cfg := testAuthConfig()
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, cfg)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-id",
		"exp":     time.Now().Add(15 * time.Minute).Unix(),
		"type":    "refresh",
	})
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	claims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	refreshToken := &models.RefreshToken{
		ID:        "token-id",
		UserID:    "user-id",
		Token:     "refresh-token",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		Revoked:   false,
	}
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Role:     "user",
	}

	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(refreshToken, nil)
	mockUserRepo.On("FindByID", "user-id").Return(user, nil)

	newAccessToken, err := authService.RefreshAccessToken("refresh-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, newAccessToken)

	// the minted token must validate as an access token
	claims, err := authService.ValidateToken(newAccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)

	mockRefreshTokenRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_TokenExpired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	refreshToken := &models.RefreshToken{
		ID:        "token-id",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	mockRefreshTokenRepo.On("FindByToken", "expired-token").Return(refreshToken, nil)
	mockRefreshTokenRepo.On("Delete", "token-id").Return(nil)

	newAccessToken, err := authService.RefreshAccessToken("expired-token")

	assert.Error(t, err)
	assert.Equal(t, ErrExpiredToken, err)
	assert.Empty(t, newAccessToken)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_Revoked(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	refreshToken := &models.RefreshToken{
		ID:        "token-id",
		Token:     "revoked-token",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}

	mockRefreshTokenRepo.On("FindByToken", "revoked-token").Return(refreshToken, nil)

	newAccessToken, err := authService.RefreshAccessToken("revoked-token")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Empty(t, newAccessToken)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRevokeToken_UnknownTokenIsSilent(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockRefreshTokenRepo.On("FindByToken", "unknown").Return(nil, gorm.ErrRecordNotFound)

	err := authService.RevokeToken("unknown")

	assert.NoError(t, err)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRevokeToken_KnownToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	refreshToken := &models.RefreshToken{ID: "token-id", Token: "refresh-token"}
	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(refreshToken, nil)
	mockRefreshTokenRepo.On("Revoke", "token-id").Return(nil)

	err := authService.RevokeToken("refresh-token")

	assert.NoError(t, err)
	mockRefreshTokenRepo.AssertExpectations(t)
}
