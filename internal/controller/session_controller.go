package controller

import (
	"fmt"

	"github.com/AashishKarn828/rag-mlops/internal/dto"
	"github.com/AashishKarn828/rag-mlops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Clear(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Get("/sessions/stats", c.Stats)
	r.Get("/session/:id", c.Show)
	r.Delete("/session/:id", c.Clear)
}

func (c *sessionController) Clear(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.service.ClearSession(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(dto.StatusResponse{
		Status:  "success",
		Message: fmt.Sprintf("Session %s cleared", id),
	})
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Stats(ctx.UserContext()))
}
