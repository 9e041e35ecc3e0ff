package auth

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service  *Service
	log      *zap.Logger
	validate *validator.Validate
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		log:      log,
		validate: validator.New(),
	}
}

func RegisterRoutes(app *fiber.App, h *Handler, mw *Middleware) {
	user := app.Group("/api/v1/user")

	user.Post("/signup", h.Signup)
	user.Post("/authenticate", h.Authenticate)
	user.Post("/refreshAccessToken", h.RefreshAccessToken)
	user.Post("/forgot", h.Forgot)
	user.Post("/checkPasswordResetToken", h.CheckPasswordResetToken)
	user.Post("/resetPassword", h.ResetPassword)

	user.Post("/invalidateRefreshToken", mw.RequireAuth(), h.InvalidateRefreshToken)
	user.Post("/invalidateAllRefreshTokens", mw.RequireAuth(), h.InvalidateAllRefreshTokens)
	user.Post("/private", mw.RequireAuth(), h.Private)
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var input SignupInput
	if err := h.parse(c, &input); err != nil {
		return err
	}
	input.IPAddress = c.IP()

	id, err := h.service.Signup(input)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "SUCCESS",
		"id":      id,
	})
}

func (h *Handler) Authenticate(c *fiber.Ctx) error {
	var input AuthenticateInput
	if err := h.parse(c, &input); err != nil {
		return err
	}

	pair, err := h.service.Authenticate(input.Username, input.Password, clientMeta(c))
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

func (h *Handler) RefreshAccessToken(c *fiber.Ctx) error {
	var input RefreshInput
	if err := h.parse(c, &input); err != nil {
		return err
	}

	pair, err := h.service.RefreshAccessToken(input.Username, input.RefreshToken, clientMeta(c))
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

func (h *Handler) InvalidateRefreshToken(c *fiber.Ctx) error {
	var input InvalidateInput
	if err := h.parse(c, &input); err != nil {
		return err
	}

	if err := h.service.InvalidateRefreshToken(input.Username, input.RefreshToken); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "SUCCESS"})
}

func (h *Handler) InvalidateAllRefreshTokens(c *fiber.Ctx) error {
	var input InvalidateAllInput
	if err := h.parse(c, &input); err != nil {
		return err
	}

	if err := h.service.InvalidateAllRefreshTokens(input.Username); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "SUCCESS"})
}

func (h *Handler) Forgot(c *fiber.Ctx) error {
	var input ForgotInput
	if err := h.parse(c, &input); err != nil {
		return err
	}

	resetURLBase := fmt.Sprintf("%s://%s%s", c.Protocol(), c.Hostname(), c.OriginalURL())

	token, err := h.service.Forgot(input.Email, resetURLBase)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"passwordResetToken": token})
}

func (h *Handler) CheckPasswordResetToken(c *fiber.Ctx) error {
	var input CheckResetTokenInput
	if err := h.parse(c, &input); err != nil {
		return err
	}

	if err := h.service.CheckPasswordResetToken(input.Email, input.PasswordResetToken); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "SUCCESS"})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var input ResetPasswordInput
	if err := h.parse(c, &input); err != nil {
		return err
	}

	if err := h.service.ResetPassword(input.Email, input.PasswordResetToken, input.Password); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "SUCCESS"})
}

// Private echoes the verified claims back to the caller.
func (h *Handler) Private(c *fiber.Ctx) error {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": claims})
}

func (h *Handler) parse(c *fiber.Ctx, input interface{}) error {
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "INVALID_DATA"})
	}

	if err := h.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			h.log.Warn("invalid request",
				zap.String("path", c.Path()),
				zap.String("field", verrs[0].Field()),
				zap.String("rule", verrs[0].Tag()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "INVALID_DATA"})
	}

	return nil
}

func (h *Handler) serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidRefreshToken),
		errors.Is(err, ErrRefreshTokenExpired):
		status = fiber.StatusUnauthorized
	case errors.Is(err, ErrTokenGeneration):
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{"error": ErrorCode(err)})
}

func clientMeta(c *fiber.Ctx) ClientMeta {
	return ClientMeta{
		UserAgent: string(c.Request().Header.UserAgent()),
		IPAddress: c.IP(),
	}
}
