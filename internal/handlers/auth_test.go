package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/models"
)

func TestRegisterCreatesUser(t *testing.T) {
	r := setupServer(t)

	w := postJSON(t, r, "/register", map[string]any{
		"username": "a",
		"email":    "a@x.com",
		"password": "p",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "User registered successfully" {
		t.Errorf("message = %v", body["message"])
	}

	user := body["user"].(map[string]any)

	token, _ := user["jwt"].(string)
	if token == "" {
		t.Error("expected a jwt in the response")
	}
	if _, err := auth.VerifyJWT(token); err != nil {
		t.Errorf("issued token failed verification: %v", err)
	}

	userData := user["userData"].(map[string]any)
	if userData["email"] != "a@x.com" {
		t.Errorf("email = %v, want a@x.com", userData["email"])
	}
	if userData["username"] != "a" {
		t.Errorf("username = %v, want a", userData["username"])
	}
	if userData["user_id"].(float64) == 0 {
		t.Error("expected a store-assigned user_id")
	}
	if _, ok := userData["password"]; ok {
		t.Error("response contains password field")
	}
	if strings.Contains(strings.ToLower(w.Body.String()), "password") {
		t.Errorf("response leaks password material: %s", w.Body.String())
	}

	var count int64
	if err := db.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "a", "a@x.com", "p")

	w := postJSON(t, r, "/register", map[string]any{
		"username": "b",
		"email":    "a@x.com",
		"password": "q",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "User already exists" {
		t.Errorf("message = %v", body["message"])
	}

	// The existing row must be untouched and no new row created.
	var users []models.User
	if err := db.DB.Find(&users).Error; err != nil {
		t.Fatalf("fetch users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("user rows = %d, want 1", len(users))
	}
	if users[0].Username != "a" {
		t.Errorf("username = %q, want %q", users[0].Username, "a")
	}
}

func TestRegisterMissingFields(t *testing.T) {
	r := setupServer(t)

	w := postJSON(t, r, "/register", map[string]any{"username": "a"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAuthenticate(t *testing.T) {
	r := setupServer(t)
	userID := registerUser(t, r, "a", "a@x.com", "p")

	w := postJSON(t, r, "/auth", map[string]any{
		"email":    "a@x.com",
		"password": "p",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "User authenticated successfully" {
		t.Errorf("message = %v", body["message"])
	}

	user := body["user"].(map[string]any)
	if user["jwt"].(string) == "" {
		t.Error("expected a jwt in the response")
	}

	userData := user["userData"].(map[string]any)
	if uint(userData["user_id"].(float64)) != userID {
		t.Errorf("user_id = %v, want %d", userData["user_id"], userID)
	}
	if strings.Contains(strings.ToLower(w.Body.String()), "password") {
		t.Errorf("response leaks password material: %s", w.Body.String())
	}

	tasks, ok := user["tasks"].([]any)
	if !ok {
		t.Fatalf("expected tasks array, got %T", user["tasks"])
	}
	if len(tasks) != 0 {
		t.Errorf("tasks = %v, want empty", tasks)
	}
}

func TestAuthenticateReturnsTaskList(t *testing.T) {
	r := setupServer(t)
	userID := registerUser(t, r, "a", "a@x.com", "p")

	postJSON(t, r, "/add-task", map[string]any{
		"userId":      userID,
		"title":       "buy milk",
		"description": "2 liters",
	})

	w := postJSON(t, r, "/auth", map[string]any{
		"email":    "a@x.com",
		"password": "p",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	user := decodeBody(t, w)["user"].(map[string]any)
	tasks := user["tasks"].([]any)
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	if title := tasks[0].(map[string]any)["title"]; title != "buy milk" {
		t.Errorf("title = %v, want buy milk", title)
	}
}

func TestAuthenticateMixedCaseEmail(t *testing.T) {
	r := setupServer(t)

	w := postJSON(t, r, "/register", map[string]any{
		"username": "a",
		"email":    "Alice@X.com",
		"password": "p",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register: status %d, body %s", w.Code, w.Body.String())
	}

	// The exact string used at registration must authenticate, even though
	// the stored email is normalized.
	w = postJSON(t, r, "/auth", map[string]any{
		"email":    "Alice@X.com",
		"password": "p",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("auth: status %d, body %s", w.Code, w.Body.String())
	}

	userData := decodeBody(t, w)["user"].(map[string]any)["userData"].(map[string]any)
	if userData["email"] != "alice@x.com" {
		t.Errorf("email = %v, want alice@x.com", userData["email"])
	}
}

func TestAuthenticateBadCredentials(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "a", "a@x.com", "p")

	wrongPassword := postJSON(t, r, "/auth", map[string]any{
		"email":    "a@x.com",
		"password": "wrong",
	})
	unknownEmail := postJSON(t, r, "/auth", map[string]any{
		"email":    "nobody@x.com",
		"password": "p",
	})

	// Both failure modes must be indistinguishable to the caller.
	for name, w := range map[string]int{"wrong password": wrongPassword.Code, "unknown email": unknownEmail.Code} {
		if w != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, w)
		}
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("responses differ: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
	if body := decodeBody(t, wrongPassword); body["message"] != "Incorrect email or password" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestChangeUsername(t *testing.T) {
	r := setupServer(t)
	userID := registerUser(t, r, "a", "a@x.com", "p")

	w := postJSON(t, r, "/change-username", map[string]any{
		"userId":      userID,
		"newUsername": "renamed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["message"] != "Username changed successfully" {
		t.Errorf("message = %v", body["message"])
	}
	if body["newUsername"] != "renamed" {
		t.Errorf("newUsername = %v, want renamed", body["newUsername"])
	}

	var user models.User
	if err := db.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		t.Fatalf("fetch user: %v", err)
	}
	if user.Username != "renamed" {
		t.Errorf("stored username = %q, want renamed", user.Username)
	}
}

func TestChangeUsernameUnknownUser(t *testing.T) {
	r := setupServer(t)

	// The update silently touches zero rows; the follow-up read fails.
	w := postJSON(t, r, "/change-username", map[string]any{
		"userId":      9999,
		"newUsername": "ghost",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Server error" {
		t.Errorf("message = %v", body["message"])
	}
}
