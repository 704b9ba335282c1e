package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"livepoll/internal/models"
	"livepoll/internal/testutil"
	"livepoll/internal/utility"
)

func TestTeacherLoginIssuesToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("TEACHER_PASSWORD_HASH", "")

	h := NewAuthHandler()
	w := httptest.NewRecorder()
	h.TeacherLogin(w, testutil.MakeRequest("POST", "/teacher-login", map[string]string{
		"username": "t1",
	}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LoginResponse
	testutil.DecodeJSON(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	claims, errMsg := utility.ValidateTeacherToken(resp.Token)
	if errMsg != "" {
		t.Fatalf("token did not validate: %s", errMsg)
	}
	if claims.Username != "t1" {
		t.Errorf("claims username: expected t1, got %q", claims.Username)
	}
}

func TestTeacherLoginPasswordCheck(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	t.Setenv("TEACHER_PASSWORD_HASH", string(hash))

	h := NewAuthHandler()

	w := httptest.NewRecorder()
	h.TeacherLogin(w, testutil.MakeRequest("POST", "/teacher-login", map[string]string{
		"username": "t1",
		"password": "wrong",
	}))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = httptest.NewRecorder()
	h.TeacherLogin(w, testutil.MakeRequest("POST", "/teacher-login", map[string]string{
		"username": "t1",
		"password": "letmein",
	}))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestVerifyTeacherToken(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	token, err := utility.GenerateTeacherToken("t1")
	if err != nil {
		t.Fatalf("GenerateTeacherToken failed: %v", err)
	}

	h := NewAuthHandler()

	req := testutil.MakeRequest("POST", "/teacher-verify", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	h.VerifyTeacherToken(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	req = testutil.MakeRequest("POST", "/teacher-verify", nil)
	req.Header.Set("Authorization", "not-a-token")
	w = httptest.NewRecorder()
	h.VerifyTeacherToken(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
