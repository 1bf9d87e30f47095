package controller

import (
	"errors"

	"clinical-synth-be/internal/dto"
	"clinical-synth-be/internal/pkg/serverutils"
	"clinical-synth-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	GetLatestChatHistory(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post(":patientId/message", c.SendChat)
	h.Get(":patientId/sessions", c.GetAllSessions)
	h.Get(":patientId/history", c.GetLatestChatHistory)
	h.Get(":patientId/history/:sessionId", c.GetChatHistory)
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	patientId := ctx.Params("patientId")

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.chatbotService.SendChat(ctx.Context(), patientId, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyChatMessage) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Chat message must not be empty"))
		}
		if errors.Is(err, service.ErrChatSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Chat session not found"))
		}
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Patient not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat reply", res))
}

func (c *chatbotController) GetChatHistory(ctx *fiber.Ctx) error {
	patientId := ctx.Params("patientId")

	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
	}

	res, err := c.chatbotService.GetChatHistory(ctx.Context(), patientId, sessionId)
	if err != nil {
		if errors.Is(err, service.ErrChatSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Chat session not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

// GetLatestChatHistory serves the transcript of the most recent session,
// so a client can reopen the last conversation without tracking session ids.
func (c *chatbotController) GetLatestChatHistory(ctx *fiber.Ctx) error {
	patientId := ctx.Params("patientId")

	res, err := c.chatbotService.GetLatestChatHistory(ctx.Context(), patientId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *chatbotController) GetAllSessions(ctx *fiber.Ctx) error {
	patientId := ctx.Params("patientId")

	res, err := c.chatbotService.GetAllSessions(ctx.Context(), patientId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat sessions", res))
}
