package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	requireRouter(t)

	w := doForm(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestSignUpDuplicates(t *testing.T) {
	requireRouter(t)

	username := uniqueName("dup_user")
	form := url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"testpass123"},
	}

	w := doForm(t, http.MethodPost, "/signup", "", form)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("same username rejected", func(t *testing.T) {
		again := url.Values{
			"username": {username},
			"email":    {uniqueName("other") + "@example.com"},
			"password": {"testpass123"},
		}
		w := doForm(t, http.MethodPost, "/signup", "", again)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("same email rejected", func(t *testing.T) {
		again := url.Values{
			"username": {uniqueName("other_user")},
			"email":    {username + "@example.com"},
			"password": {"testpass123"},
		}
		w := doForm(t, http.MethodPost, "/signup", "", again)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("empty fields rejected", func(t *testing.T) {
		w := doForm(t, http.MethodPost, "/signup", "", url.Values{
			"username": {""}, "email": {""}, "password": {""},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginWrongPassword(t *testing.T) {
	requireRouter(t)

	username := uniqueName("login_user")
	w := doForm(t, http.MethodPost, "/signup", "", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"rightpass"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doForm(t, http.MethodPost, "/login", "", url.Values{
		"username": {username},
		"password": {"wrongpass"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doForm(t, http.MethodPost, "/login", "", url.Values{
		"username": {"no_such_user_at_all"},
		"password": {"whatever"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPrivateProfileAndUpdate(t *testing.T) {
	requireRouter(t)

	userID, token := newTestUser(t, "profile_user")

	t.Run("me requires auth", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns own profile", func(t *testing.T) {
		w := doForm(t, http.MethodGet, "/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var profile struct {
			UserID string `json:"user_id"`
		}
		decodeJSON(t, w, &profile)
		assert.Equal(t, userID, profile.UserID)
	})

	t.Run("update display name", func(t *testing.T) {
		w := doForm(t, http.MethodPatch, "/auth/update", token, url.Values{
			"display_name": {"Updated Name"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Updated Name")
	})
}

func TestPublicUserLookup(t *testing.T) {
	requireRouter(t)

	userID, _ := newTestUser(t, "public_user")

	w := doForm(t, http.MethodGet, "/users/"+userID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var profile map[string]interface{}
	decodeJSON(t, w, &profile)
	assert.Equal(t, userID, profile["user_id"])
	// Private fields never leak through the public endpoint
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "email")

	w = doForm(t, http.MethodGet, "/users/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpointsForbiddenForRegularUsers(t *testing.T) {
	requireRouter(t)

	_, token := newTestUser(t, "plain_user")

	w := doForm(t, http.MethodGet, "/auth/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doForm(t, http.MethodPost, "/auth/admin/games", token, url.Values{"title": {"X"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
