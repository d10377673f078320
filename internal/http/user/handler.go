package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/http/request"
	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/user"
)

type Handler struct {
	svc    *user.Service
	issuer *auth.Issuer
}

func NewHandler(svc *user.Service, issuer *auth.Issuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

// PublicRoutes need no token.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// Routes must be mounted behind auth.Issuer.Middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Get("/profile", h.profile)
	r.Get("/me", h.profile)
	r.Put("/profile", h.updateProfile)
	r.Put("/me", h.updateProfile)
}

// AdminRoutes must be mounted behind auth.RequireAdmin.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Delete("/users/{id}", h.delete)
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type profileUpdatedResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, request.ErrBadRequest):
		respond.Message(w, http.StatusBadRequest, request.Message(err))
	case errors.Is(err, user.ErrInvalidInput), errors.Is(err, user.ErrPasswordTooLong):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrExists):
		respond.Message(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, user.ErrSelfDelete):
		respond.Message(w, http.StatusBadRequest, "Cannot delete own account")
	case errors.Is(err, user.ErrInvalidCredentials):
		respond.Message(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, user.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "User not found")
	default:
		respond.ServerError(w, r, err)
	}
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request, u *user.User) {
	token, err := h.issuer.Issue(u)
	if err != nil {
		respond.ServerError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, tokenResponse{Token: token, User: toResponse(u)})
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), user.RegisterParams{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.issue(w, r, u)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.issue(w, r, u)
}

// logout is a no-op: tokens are stateless and expire on their own.
func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	respond.Message(w, http.StatusOK, "Logout successful")
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), auth.OwnerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(u))
}

type updateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), auth.OwnerID(r.Context()), user.UpdateParams{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, profileUpdatedResponse{Message: "Profile updated", User: toResponse(u)})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toResponse(u)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.OwnerID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "User deleted")
}
