package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/filegate/service/internal/response"
)

// validate checks registration payloads; field names in error messages come
// from the json tags.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"s3cret"`
}

type loginData struct {
	Token string `json:"token" example:"eyJhbGci..."`
}

type registerRequest struct {
	Username  string `json:"username"   validate:"required" example:"alice"`
	Password  string `json:"password"   validate:"required" example:"s3cret"`
	Email     string `json:"email"      validate:"required,email" example:"alice@example.com"`
	FirstName string `json:"first_name" validate:"required" example:"Alice"`
	LastName  string `json:"last_name"  validate:"required" example:"Liddell"`
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Exchange a username/password pair for a bearer token. Any rejection answers 401.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	loginData
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Router			/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Unauthorized(w, "Invalid credentials", err)
		return
	}

	response.JSON(w, http.StatusOK, loginData{Token: token})
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a new identity in the identity backend. Only available in keycloak auth mode.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Registration details"
//	@Success		201		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	// Reject incomplete payloads before any call to the identity backend.
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			response.BadRequest(w, "missing or invalid field: "+fieldErrs[0].Field())
			return
		}
		response.BadRequest(w, "invalid request body")
		return
	}

	err := h.svc.Register(r.Context(), Registration{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, "registration failed", err)
		return
	}

	response.Message(w, http.StatusCreated, "User registered successfully")
}
