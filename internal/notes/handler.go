package notes

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/elskow/notekeep/internal/auth"
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

func RegisterRoutes(app *fiber.App, h *Handler, mw *auth.Middleware) {
	notes := app.Group("/api/v1/notes", mw.RequireAuth())

	notes.Get("/", h.List)
	notes.Post("/", h.Create)
	notes.Get("/:id", h.Get)
	notes.Put("/:id", h.Update)
	notes.Delete("/:id", h.Delete)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
	}

	var query ListQuery
	if err := c.QueryParser(&query); err != nil {
		return invalidData(c)
	}
	query.Order = strings.ToUpper(query.Order)

	if err := h.validate.Struct(query); err != nil {
		return invalidData(c)
	}

	result, err := h.service.List(userID, query)
	if err != nil {
		return invalidData(c)
	}

	out := make([]NoteOutput, 0, len(result))
	for i := range result {
		out = append(out, toOutput(&result[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
	}

	var input CreateNoteInput
	if err := c.BodyParser(&input); err != nil {
		return invalidData(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return invalidData(c)
	}

	id, err := h.service.Create(userID, c.IP(), input)
	if err != nil {
		return invalidData(c)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "SUCCESS",
		"id":      id,
	})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidData(c)
	}

	note, err := h.service.Get(userID, uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toOutput(note))
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidData(c)
	}

	var input UpdateNoteInput
	if err := c.BodyParser(&input); err != nil {
		return invalidData(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return invalidData(c)
	}

	if err := h.service.Update(userID, uint(id), c.IP(), input); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "SUCCESS"})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "INVALID_TOKEN"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidData(c)
	}

	if err := h.service.Delete(userID, uint(id)); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "SUCCESS"})
}

func callerID(c *fiber.Ctx) (uint, bool) {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}

func serviceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNoteNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "INVALID_DATA"})
	}
	return invalidData(c)
}

func invalidData(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "INVALID_DATA"})
}
