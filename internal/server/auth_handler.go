package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pawhome/adoption-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

type signupInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (s *server) handleSignup(w http.ResponseWriter, r *http.Request) {
	input := signupInput{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorResponse(w, domain.NewValidationError("body", "must be valid JSON"))
		return
	}
	for _, f := range []struct{ name, value string }{
		{"firstName", input.FirstName},
		{"lastName", input.LastName},
		{"email", input.Email},
		{"password", input.Password},
	} {
		if f.value == "" {
			errorResponse(w, domain.NewValidationError(f.name, "is required"))
			return
		}
	}

	passwordHashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		s.logger.Error("error hashing password", "error", err)
		errorResponse(w, err)
		return
	}

	user := domain.User{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Password:    string(passwordHashBytes),
	}
	if err := s.userRepository.Create(r.Context(), &user); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error("error creating user", "error", err, "email", input.Email)
		}
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	input := loginInput{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorResponse(w, domain.NewValidationError("body", "must be valid JSON"))
		return
	}
	if input.Email == "" || input.Password == "" {
		errorResponse(w, domain.NewValidationError("email", "email and password are required"))
		return
	}

	user, err := s.userRepository.GetByEmail(r.Context(), input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			jsonResponse(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
			return
		}
		s.logger.Error("error getting user by email", "error", err)
		errorResponse(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		jsonResponse(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("error issuing token", "error", err, "userId", user.ID)
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Email: user.Email},
	})
}
