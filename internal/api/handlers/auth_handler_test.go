package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"salesloop/crm/internal/api/handlers"
	"salesloop/crm/internal/config"
	"salesloop/crm/internal/models"
	"salesloop/crm/internal/services"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JwtSecret:          "handler-test-secret",
		JwtTTL:             2 * time.Hour,
		AllowedEmailDomain: "@gmail.com",
	}
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/signup", handler.Signup)

	mockUserSvc.On("Signup", mock.Anything, "asha@gmail.com", "secret123").
		Return(&models.User{Username: "asha@gmail.com", Role: models.RoleUser}, nil)

	w := postJSON(r, "/signup", gin.H{"username": "asha@gmail.com", "password": "secret123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "asha@gmail.com")
	mockUserSvc.AssertExpectations(t)
}

func TestAuthHandler_Signup_DomainNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/signup", handler.Signup)

	mockUserSvc.On("Signup", mock.Anything, "asha@corp.example", "secret123").
		Return(nil, services.ErrDomainNotAllowed)

	w := postJSON(r, "/signup", gin.H{"username": "asha@corp.example", "password": "secret123"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUserSvc.AssertExpectations(t)
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/signup", handler.Signup)

	w := postJSON(r, "/signup", gin.H{"username": "asha@gmail.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUserSvc.AssertNotCalled(t, "Signup")
}

func TestAuthHandler_Signup_DuplicateUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/signup", handler.Signup)

	mockUserSvc.On("Signup", mock.Anything, "asha@gmail.com", "secret123").
		Return(nil, services.ErrUsernameExists)

	w := postJSON(r, "/signup", gin.H{"username": "asha@gmail.com", "password": "secret123"})

	assert.Equal(t, http.StatusConflict, w.Code)
	mockUserSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/login", handler.Login)

	mockUserSvc.On("Authenticate", mock.Anything, "asha@gmail.com", "secret123").
		Return(&models.User{Username: "asha@gmail.com", Role: models.RoleAdmin}, nil)

	w := postJSON(r, "/login", gin.H{"username": "asha@gmail.com", "password": "secret123"})

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.NotEmpty(t, respBody["token"])
	assert.Equal(t, "admin", respBody["role"])
	mockUserSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/login", handler.Login)

	mockUserSvc.On("Authenticate", mock.Anything, "ghost@gmail.com", "secret123").
		Return(nil, mongo.ErrNoDocuments)

	w := postJSON(r, "/login", gin.H{"username": "ghost@gmail.com", "password": "secret123"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUserSvc.AssertExpectations(t)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/login", handler.Login)

	mockUserSvc.On("Authenticate", mock.Anything, "asha@gmail.com", "wrong").
		Return(nil, services.ErrInvalidPassword)

	w := postJSON(r, "/login", gin.H{"username": "asha@gmail.com", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUserSvc.AssertExpectations(t)
}
