package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/avrorin/blog-platform/internal/auth"
    "github.com/avrorin/blog-platform/internal/config"
    "github.com/avrorin/blog-platform/internal/middleware"
    "github.com/avrorin/blog-platform/internal/repository"
    "github.com/avrorin/blog-platform/internal/utils"
)

// AuthHandler bundles dependencies for the identity endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
type registerResp struct {
	ID    string   `json:"id"`
	Token string   `json:"token"`
	User  userPart `json:"user"`
}
type loginResp struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Register creates a user, hashes the password and issues a token in one
// step so clients are signed in right after signing up.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body", "id": ""})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required", "id": ""})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, req.FirstName, req.LastName, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"message": "User with this email already exists",
				"id":      "",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error(), "id": ""})
	}

	token, err := auth.Issue(u.ID, h.Cfg.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error(), "id": ""})
	}

	return c.JSON(http.StatusOK, registerResp{
		ID:    u.ID,
		Token: token,
		User: userPart{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
	})
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password return the same message on purpose so the endpoint cannot
// be used to probe which addresses are registered.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body", "id": ""})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email or password", "id": ""})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error(), "id": ""})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email or password", "id": ""})
	}

	token, err := auth.Issue(u.ID, h.Cfg.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error(), "id": ""})
	}

	return c.JSON(http.StatusOK, loginResp{ID: u.ID, Token: token})
}

// GetUser returns the authenticated user's safe fields. The auth gate has
// already verified the token and stored the subject id in the context.
func (h *AuthHandler) GetUser(c echo.Context) error {
	uid, _ := c.Get(middleware.UserIDKey).(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	return c.JSON(http.StatusOK, userPart{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}
