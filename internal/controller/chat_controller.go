package controller

import (
	"github.com/AashishKarn828/rag-mlops/internal/dto"
	"github.com/AashishKarn828/rag-mlops/internal/pkg/serverutils"
	"github.com/AashishKarn828/rag-mlops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IRagService
}

func NewChatController(service service.IRagService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return service.NewValidationError(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	topK := 0
	if req.TopK != nil {
		topK = *req.TopK
	}

	res, err := c.service.Chat(ctx.UserContext(), req.Query, topK, req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.ChatResponse{
		Answer:    res.Answer,
		Sources:   res.Sources,
		SessionId: res.SessionID,
	})
}
