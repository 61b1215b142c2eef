package controller

import (
	"errors"
	"fmt"
	"io"

	"github.com/AashishKarn828/rag-mlops/internal/dto"
	"github.com/AashishKarn828/rag-mlops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IRagService
}

func NewDocumentController(service service.IRagService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/index", c.Index)
}

func (c *documentController) Index(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return service.NewValidationError(errors.New("multipart field 'file' is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	chunks, err := c.service.IndexFile(ctx.UserContext(), fileHeader.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.IndexResponse{
		Status:        "success",
		Filename:      fileHeader.Filename,
		ChunksIndexed: chunks,
		Message:       fmt.Sprintf("Successfully indexed %d chunks from %s", chunks, fileHeader.Filename),
	})
}
