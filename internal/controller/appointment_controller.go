// FILE: internal/controller/appointment_controller.go
package controller

import (
	"clinic-assist-be/internal/pkg/serverutils"
	"clinic-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAppointmentController interface {
	RegisterRoutes(r fiber.Router)
}

type appointmentController struct {
	service service.IAppointmentService
}

func NewAppointmentController(service service.IAppointmentService) IAppointmentController {
	return &appointmentController{service: service}
}

func (c *appointmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/appointments", serverutils.JwtMiddleware)
	h.Get("/", c.GetAppointments)
	h.Post("/:id/cancel", c.CancelAppointment)
}

func (c *appointmentController) GetAppointments(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Query("bot_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "bot_id query parameter is required"))
	}

	res, err := c.service.GetAppointments(ctx.Context(), currentUserId(ctx), botId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Appointments", res))
}

func (c *appointmentController) CancelAppointment(ctx *fiber.Ctx) error {
	appointmentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid appointment id"))
	}

	if err := c.service.CancelAppointment(ctx.Context(), currentUserId(ctx), appointmentId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Appointment cancelled", nil))
}
