// FILE: internal/controller/widget_controller.go
package controller

import (
	"clinic-assist-be/internal/pkg/serverutils"
	"clinic-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWidgetController interface {
	RegisterRoutes(r fiber.Router)
}

// widgetController serves the public bootstrap config the embed script
// fetches before opening the chat. No auth.
type widgetController struct {
	service service.IBotService
}

func NewWidgetController(service service.IBotService) IWidgetController {
	return &widgetController{service: service}
}

func (c *widgetController) RegisterRoutes(r fiber.Router) {
	r.Get("/widget/:botId/config", c.GetConfig)
}

func (c *widgetController) GetConfig(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Params("botId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bot id"))
	}

	res, err := c.service.GetWidgetConfig(ctx.Context(), botId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Widget config", res))
}
