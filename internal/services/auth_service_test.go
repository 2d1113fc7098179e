package services_test

import (
	"errors"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lapak/internal/models"
	"lapak/internal/services"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Customers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) CustomerCount() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func newAuthService(repo *MockUserRepository) *services.AuthService {
	return services.NewAuthService(repo, "test-secret", zap.NewNop())
}

func TestRegisterUser_Success(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo)

	user := &models.User{Username: "budi", Email: "budi@example.com", Password: "password123"}
	repo.On("GetByUsername", "budi").Return(nil, errors.New("not found"))
	repo.On("GetByEmail", "budi@example.com").Return(nil, errors.New("not found"))
	repo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	err := service.RegisterUser(user)
	require.NoError(t, err)

	// Password is stored hashed, never in the clear
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	repo.AssertExpectations(t)
}

func TestRegisterUser_UsernameTaken(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo)

	existing := &models.User{Username: "budi"}
	repo.On("GetByUsername", "budi").Return(existing, nil)

	err := service.RegisterUser(&models.User{Username: "budi", Email: "new@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegisterUser_EmailTaken(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo)

	repo.On("GetByUsername", "budi").Return(nil, errors.New("not found"))
	repo.On("GetByEmail", "budi@example.com").Return(&models.User{Email: "budi@example.com"}, nil)

	err := service.RegisterUser(&models.User{Username: "budi", Email: "budi@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLoginUser_Success(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo.On("GetByUsername", "budi").Return(&models.User{
		ID:       "user-1",
		Username: "budi",
		Password: string(hashed),
		IsSeller: true,
	}, nil)

	token, err := service.LoginUser("budi", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "budi", claims["username"])
	assert.Equal(t, true, claims["is_seller"])
}

func TestLoginUser_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.On("GetByUsername", "budi").Return(&models.User{Username: "budi", Password: string(hashed)}, nil)

	_, err := service.LoginUser("budi", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLoginUser_UnknownUsername(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo)

	repo.On("GetByUsername", "ghost").Return(nil, errors.New("not found"))

	_, err := service.LoginUser("ghost", "password123")
	require.Error(t, err)
	// The error must not reveal whether the username exists
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestValidateToken_Garbage(t *testing.T) {
	service := newAuthService(new(MockUserRepository))

	_, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := newAuthService(new(MockUserRepository))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-1"})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = service.ValidateToken(signed)
	assert.Error(t, err)
}
