package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/packworks/packworks/internal/domain"
)

func TestHandleRegisterUser(t *testing.T) {
	t.Run("NewUser", func(t *testing.T) {
		mockUsers := new(MockUserStore)
		h := NewUserHandler(mockUsers)
		mockUsers.On("GetUserByUsername", mock.Anything, "collector").Return(nil, domain.ErrUserNotFound)
		mockUsers.On("UpsertUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "collector"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = uuid.NewString()
		}).Return(nil)

		rec := postJSON(t, h.HandleRegisterUser, "/user/register", RegisterUserRequest{Username: "collector"})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var user domain.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.NotEmpty(t, user.ID)
	})

	t.Run("ExistingUserReturned", func(t *testing.T) {
		mockUsers := new(MockUserStore)
		h := NewUserHandler(mockUsers)
		existing := &domain.User{ID: uuid.NewString(), Username: "collector"}
		mockUsers.On("GetUserByUsername", mock.Anything, "collector").Return(existing, nil)

		rec := postJSON(t, h.HandleRegisterUser, "/user/register", RegisterUserRequest{Username: "collector"})

		assert.Equal(t, http.StatusOK, rec.Code)
		mockUsers.AssertNotCalled(t, "UpsertUser", mock.Anything, mock.Anything)
	})

	t.Run("UsernameTooShort", func(t *testing.T) {
		h := NewUserHandler(new(MockUserStore))

		rec := postJSON(t, h.HandleRegisterUser, "/user/register", RegisterUserRequest{Username: "ab"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetUser(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockUsers := new(MockUserStore)
		h := NewUserHandler(mockUsers)
		mockUsers.On("GetUserByUsername", mock.Anything, "collector").Return(&domain.User{ID: uuid.NewString(), Username: "collector"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/user?username=collector", nil)
		rec := httptest.NewRecorder()
		h.HandleGetUser(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockUsers := new(MockUserStore)
		h := NewUserHandler(mockUsers)
		mockUsers.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodGet, "/user?username=ghost", nil)
		rec := httptest.NewRecorder()
		h.HandleGetUser(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgUserNotFoundError)
	})
}
