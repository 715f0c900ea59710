package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/utils/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	byEmail map[string][2]string
}

func (m *memUsers) CreateUser(email, password string) (string, error) {
	if _, ok := m.byEmail[email]; ok {
		return "", errors.New("duplicate email")
	}
	id := string(rune('0' + len(m.byEmail) + 1))
	m.byEmail[email] = [2]string{id, password}
	return id, nil
}

func (m *memUsers) GetUserByEmail(email string) (string, string, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return "", "", storage.ErrNotFound
	}
	return u[0], u[1], nil
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestSignUpAndLogin(t *testing.T) {
	store := &memUsers{byEmail: map[string][2]string{}}

	rec := post(SignUp(store), `{"email":"a@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = post(Login(store, "jwt"), `{"email":"a@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	userID, err := jwt.ExtractUserIDFromToken(body["token"], "jwt")
	require.NoError(t, err)
	assert.Equal(t, body["user_id"], userID)
}

func TestSignUp_Validation(t *testing.T) {
	store := &memUsers{byEmail: map[string][2]string{}}

	assert.Equal(t, http.StatusBadRequest, post(SignUp(store), `{"email":"nope","password":"secret1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(SignUp(store), `{"email":"a@example.com","password":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(SignUp(store), `not json`).Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := &memUsers{byEmail: map[string][2]string{}}
	require.Equal(t, http.StatusCreated, post(SignUp(store), `{"email":"a@example.com","password":"secret1"}`).Code)

	assert.Equal(t, http.StatusUnauthorized, post(Login(store, "jwt"), `{"email":"a@example.com","password":"secret2"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(Login(store, "jwt"), `{"email":"b@example.com","password":"secret1"}`).Code)
}
