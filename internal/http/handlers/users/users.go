package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types/users"
	"github.com/princekumarofficial/courses-service/internal/utils/jwt"
	"github.com/princekumarofficial/courses-service/internal/utils/password"
	"github.com/princekumarofficial/courses-service/internal/utils/response"
)

var validate = validator.New()

// decodeAndValidate writes a 400 and returns false when the body is not a
// valid dst.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
			return false
		}
		response.Fail(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// SignUp handles user registration
// @Summary Register a new user
// @Description Register a new user account
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignUpRequest true "User registration details"
// @Success 201 {object} map[string]string "User created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /signup [post]
func SignUp(store storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var signupReq users.SignUpRequest
		if !decodeAndValidate(w, r, &signupReq) {
			return
		}

		hashedPassword, err := password.HashPassword(signupReq.Password)
		if err != nil {
			response.Fail(w, http.StatusInternalServerError, "failed to hash password")
			return
		}

		userID, err := store.CreateUser(signupReq.Email, hashedPassword)
		if err != nil {
			slog.Error("Failed to create user", slog.String("error", err.Error()))
			response.Internal(w)
			return
		}
		slog.Info("User created", slog.String("user_id", userID))

		response.WriteJSON(w, http.StatusCreated, map[string]string{
			"id": userID,
		})
	}
}

// Login handles user authentication
// @Summary Authenticate a user
// @Description Authenticate a user and return JWT token
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignInRequest true "User login details"
// @Success 200 {object} map[string]string "User authenticated successfully with token"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /login [post]
func Login(store storage.UserStore, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var signinReq users.SignInRequest
		if !decodeAndValidate(w, r, &signinReq) {
			return
		}

		userID, hashedPassword, err := store.GetUserByEmail(signinReq.Email)
		if err != nil {
			response.Fail(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		if !password.CheckPasswordHash(signinReq.Password, hashedPassword) {
			response.Fail(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		token, err := jwt.CreateToken(userID, jwtSecret)
		if err != nil {
			response.Fail(w, http.StatusInternalServerError, "failed to generate token")
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{
			"user_id": userID,
			"token":   token,
		})
	}
}
