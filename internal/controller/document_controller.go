// FILE: internal/controller/document_controller.go
package controller

import (
	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/pkg/serverutils"
	"clinic-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents", serverutils.JwtMiddleware)
	h.Post("/", c.CreateDocument)
	h.Get("/", c.GetDocuments)
	h.Delete("/:id", c.DeleteDocument)
	h.Post("/:id/reindex", c.ReindexDocument)
}

func (c *documentController) CreateDocument(ctx *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateDocument(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Document created; indexing queued", res))
}

func (c *documentController) GetDocuments(ctx *fiber.Ctx) error {
	botId, err := uuid.Parse(ctx.Query("bot_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "bot_id query parameter is required"))
	}

	res, err := c.service.GetDocuments(ctx.Context(), currentUserId(ctx), botId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Documents", res))
}

func (c *documentController) DeleteDocument(ctx *fiber.Ctx) error {
	documentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid document id"))
	}

	if err := c.service.DeleteDocument(ctx.Context(), currentUserId(ctx), documentId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Document deleted", nil))
}

func (c *documentController) ReindexDocument(ctx *fiber.Ctx) error {
	documentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid document id"))
	}

	if err := c.service.ReindexDocument(ctx.Context(), currentUserId(ctx), documentId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Reindex queued", nil))
}
