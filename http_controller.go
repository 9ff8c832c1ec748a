package postboard

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// SignUpRequest is the payload for POST /api/auth/signup.
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthController exposes signup and login over HTTP.
type AuthController struct {
	auth   Authenticator
	logger Logger
}

// AuthControllerOption configures an AuthController.
type AuthControllerOption func(*AuthController)

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewAuthController builds the controller around an Authenticator.
func NewAuthController(auth Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		auth:   auth,
		logger: defLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterRoutes mounts the auth endpoints under the given router.
func (a *AuthController) RegisterRoutes(router fiber.Router) {
	grp := router.Group("/api/auth")
	grp.Post("/signup", a.SignUp)
	grp.Post("/login", a.Login)
}

// SignUp creates a new account and returns its public identity.
func (a *AuthController) SignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid signup payload").
			WithCode(errors.CodeBadRequest)
	}

	if err := req.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest)
	}

	user, err := a.auth.Register(c.UserContext(), RegisterUserMessage{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		a.logger.Error("SignUp failed for %s: %v", req.Username, err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"message":  "User registered successfully",
	})
}

// Login verifies the credentials and returns a bearer token.
func (a *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid login payload").
			WithCode(errors.CodeBadRequest)
	}

	if err := req.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest)
	}

	token, err := a.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		a.logger.Error("Login failed for %s: %v", req.Username, err)
		return err
	}

	return c.JSON(fiber.Map{
		"token":    token,
		"username": req.Username,
		"message":  "Login successful",
	})
}
