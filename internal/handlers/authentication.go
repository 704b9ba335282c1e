package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-playground/validator"
	"golang.org/x/crypto/bcrypt"

	"livepoll/internal/models"
	"livepoll/internal/utility"
	utilityhttp "livepoll/internal/utility/http"
)

// AuthHandler implements the placeholder teacher login. When
// TEACHER_PASSWORD_HASH is set the password is bcrypt-checked against it;
// otherwise any username is accepted. There are no per-teacher accounts.
type AuthHandler struct {
	validate *validator.Validate
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{validate: validator.New()}
}

// TeacherLogin handles POST /teacher-login
func (h *AuthHandler) TeacherLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilityhttp.RespondError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utilityhttp.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if hash := os.Getenv("TEACHER_PASSWORD_HASH"); hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			utilityhttp.RespondError(w, http.StatusUnauthorized, "login or password is incorrect", nil)
			return
		}
	}

	token, err := utility.GenerateTeacherToken(req.Username)
	if err != nil {
		utilityhttp.RespondError(w, http.StatusInternalServerError, "failed to generate token", err)
		return
	}

	utilityhttp.RespondJSON(w, http.StatusOK, models.LoginResponse{
		Username: req.Username,
		Token:    token,
	})
}

// VerifyTeacherToken handles POST /teacher-verify
func (h *AuthHandler) VerifyTeacherToken(w http.ResponseWriter, r *http.Request) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		utilityhttp.RespondError(w, http.StatusUnauthorized, "no authorization header provided", nil)
		return
	}

	claims, errMsg := utility.ValidateTeacherToken(tokenString)
	if errMsg != "" {
		utilityhttp.RespondError(w, http.StatusUnauthorized, errMsg, nil)
		return
	}

	utilityhttp.RespondJSON(w, http.StatusOK, map[string]string{"username": claims.Username})
}
