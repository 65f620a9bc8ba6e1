package controller

import (
	"errors"

	"vaulta-banking-be/internal/dto"
	"vaulta-banking-be/internal/pkg/logger"
	"vaulta-banking-be/internal/pkg/serverutils"
	"vaulta-banking-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SessionNotifier tells live chat sockets about operator actions.
type SessionNotifier interface {
	Notify(sessionID, kind, message string)
}

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	ResetAllSessions(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
	GetEscalations(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.ISessionAdminService
	desk      *service.EscalationDesk
	notifier  SessionNotifier
	jwtSecret string
}

func NewAdminController(
	service service.ISessionAdminService,
	desk *service.EscalationDesk,
	notifier SessionNotifier,
	jwtSecret string,
) IAdminController {
	return &adminController{service: service, desk: desk, notifier: notifier, jwtSecret: jwtSecret}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))

	h.Get("/sessions", c.ListSessions)
	h.Get("/sessions/:id", c.GetSession)
	h.Delete("/sessions/:id", c.ResetSession)
	h.Delete("/sessions", c.ResetAllSessions)

	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)

	h.Get("/escalations", c.GetEscalations)
}

func (c *adminController) ListSessions(ctx *fiber.Ctx) error {
	sessions, err := c.service.ListSessions(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions", sessions))
}

func (c *adminController) GetSession(ctx *fiber.Ctx) error {
	s, err := c.service.GetSession(ctx.UserContext(), ctx.Params("id"))
	if errors.Is(err, service.ErrSessionNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session detail", s))
}

func (c *adminController) ResetSession(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.service.ResetSession(ctx.UserContext(), id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if c.notifier != nil {
		c.notifier.Notify(id, "session_reset", "This conversation was reset by an operator.")
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session reset", nil))
}

func (c *adminController) ResetAllSessions(ctx *fiber.Ctx) error {
	res, err := c.service.ResetAllSessions(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("All sessions reset", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	req := dto.LogListRequest{
		Level:  ctx.Query("level"),
		Limit:  ctx.QueryInt("limit", 50),
		Offset: ctx.QueryInt("offset", 0),
	}
	logs, err := c.service.GetLogs(req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	l, err := c.service.GetLogById(ctx.Params("id"))
	if errors.Is(err, logger.ErrLogNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}

func (c *adminController) GetEscalations(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Escalations", c.desk.Recent()))
}
