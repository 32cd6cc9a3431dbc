// FILE: internal/controller/chat_controller.go
package controller

import (
	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/pkg/serverutils"
	"clinic-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
}

// chatController exposes the public widget chat endpoint (no auth; the
// bot id in the path scopes everything) and the owner-facing
// conversation views.
type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	// Public: called by the embedded widget.
	r.Post("/bots/:botId/chat", c.SendChat)

	// Owner views.
	h := r.Group("/bots/:botId/conversations", serverutils.JwtMiddleware)
	h.Get("/", c.GetConversations)
	h.Get("/:sessionKey/messages", c.GetConversationHistory)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Params("botId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bot id"))
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), botId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply", res))
}

func (c *chatController) GetConversations(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Params("botId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bot id"))
	}

	res, err := c.service.GetConversations(ctx.Context(), currentUserId(ctx), botId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversations", res))
}

func (c *chatController) GetConversationHistory(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Params("botId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bot id"))
	}
	sessionKey := ctx.Params("sessionKey")

	res, err := c.service.GetConversationHistory(ctx.Context(), currentUserId(ctx), botId, sessionKey)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages", res))
}
