package controller

import (
	"github.com/AashishKarn828/rag-mlops/internal/dto"
	"github.com/AashishKarn828/rag-mlops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	service service.IRagService
}

func NewHealthController(service service.IRagService) IHealthController {
	return &healthController{service: service}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
}

func (c *healthController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.RootResponse{
		Message: "RAG Microservice API is running",
		Status:  "healthy",
	})
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	health := c.service.Health()
	return ctx.JSON(dto.HealthResponse{
		Status:       health.Status,
		ModelsLoaded: health.ModelsLoaded,
	})
}
