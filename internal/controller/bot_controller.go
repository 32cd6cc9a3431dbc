// FILE: internal/controller/bot_controller.go
package controller

import (
	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/pkg/serverutils"
	"clinic-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBotController interface {
	RegisterRoutes(r fiber.Router)
}

type botController struct {
	service service.IBotService
}

func NewBotController(service service.IBotService) IBotController {
	return &botController{service: service}
}

func (c *botController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bots", serverutils.JwtMiddleware)
	h.Post("/", c.CreateBot)
	h.Get("/", c.GetBots)
	h.Get("/:id", c.GetBot)
	h.Put("/:id", c.UpdateBot)
	h.Delete("/:id", c.DeleteBot)
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *botController) CreateBot(ctx *fiber.Ctx) error {
	var req dto.CreateBotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateBot(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Bot created", res))
}

func (c *botController) GetBots(ctx *fiber.Ctx) error {
	res, err := c.service.GetBots(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Bots", res))
}

func (c *botController) GetBot(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bot id"))
	}

	res, err := c.service.GetBot(ctx.Context(), currentUserId(ctx), botId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Bot", res))
}

func (c *botController) UpdateBot(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bot id"))
	}

	var req dto.UpdateBotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateBot(ctx.Context(), currentUserId(ctx), botId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Bot updated", res))
}

func (c *botController) DeleteBot(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bot id"))
	}

	if err := c.service.DeleteBot(ctx.Context(), currentUserId(ctx), botId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Bot deleted", nil))
}
