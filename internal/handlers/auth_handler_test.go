package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/middleware"
	"coinconductor/internal/models"
	"coinconductor/internal/services"
	"coinconductor/internal/validator"
)

// --- mock user service ---

type mockUserService struct {
	createUserFn   func(email, username, password string) (*models.User, error)
	getUserByIDFn  func(id uint) (*models.User, error)
	attemptLoginFn func(identifier, password string) (*models.User, error)
	updateUserFn   func(userID uint, update services.UserUpdate) (*models.User, error)
	deleteUserFn   func(userID uint) error
}

func (m *mockUserService) CreateUser(email, username, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	return true
}

func (m *mockUserService) AttemptLogin(identifier, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(identifier, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateUser(userID uint, update services.UserUpdate) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(userID, update)
	}
	return &models.User{}, nil
}

func (m *mockUserService) DeleteUser(userID uint) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(userID)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func testAuthenticator() *middleware.Authenticator {
	return middleware.NewAuthenticator("test-secret", time.Hour)
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/token", handler.Token)
	return r
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with token", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(email, username, password string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: 1}, Email: email, Username: username}, nil
			},
		}
		handler := NewAuthHandler(userSvc, testAuthenticator())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"alice@example.com","username":"alice","password":"secret123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == "" {
			t.Error("expected token in response")
		}
		user := result["user"].(map[string]interface{})
		if user["username"] != "alice" {
			t.Errorf("expected username alice, got %v", user["username"])
		}
	})

	t.Run("returns 400 on invalid email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, testAuthenticator())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"not-an-email","username":"alice","password":"secret123"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, testAuthenticator())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"alice@example.com","username":"alice","password":"short"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(email, username, password string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc, testAuthenticator())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"alice@example.com","username":"alice","password":"secret123"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Token(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(identifier, password string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: 7}, Email: "bob@example.com", Username: "bob"}, nil
			},
		}
		handler := NewAuthHandler(userSvc, testAuthenticator())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/token", `{"username":"bob","password":"secret123"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["token"] == "" {
			t.Error("expected token in response")
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(identifier, password string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(userSvc, testAuthenticator())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/token", `{"username":"bob","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})
}
