package controller

import (
	"whisperlink-be/internal/pkg/serverutils"
	"whisperlink-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILinkController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
	ListConversations(ctx *fiber.Ctx) error
	CreateConversation(ctx *fiber.Ctx) error
}

type linkController struct {
	service service.ILinkService
}

func NewLinkController(service service.ILinkService) ILinkController {
	return &linkController{service: service}
}

func (c *linkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/link/v1")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Get(":id/verify", c.Verify)
	h.Get(":id/conversations", c.ListConversations)
	h.Post(":id/conversations", c.CreateConversation)
}

func (c *linkController) Create(ctx *fiber.Ctx) error {
	res, err := c.service.CreateLink(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create link", res))
}

func (c *linkController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid link id")
	}

	res, err := c.service.GetLink(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show link", res))
}

func (c *linkController) Verify(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid link id")
	}

	res := c.service.VerifyLink(ctx.Context(), id)
	return ctx.JSON(serverutils.SuccessResponse("Success verify link", res))
}

func (c *linkController) ListConversations(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid link id")
	}

	res, err := c.service.ListVisibleConversations(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *linkController) CreateConversation(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid link id")
	}

	res, err := c.service.CreateConversation(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create conversation", res))
}
