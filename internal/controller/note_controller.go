package controller

import (
	"io"
	"net/http"

	"clinical-synth-be/internal/pkg/serverutils"
	"clinical-synth-be/internal/service"
	"clinical-synth-be/pkg/synthesis"

	"github.com/gofiber/fiber/v2"
)

const maxDocumentPages = 10

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Synthesize(ctx *fiber.Ctx) error
	GetNotes(ctx *fiber.Ctx) error
}

type noteController struct {
	synthesisService service.ISynthesisService
}

func NewNoteController(synthesisService service.ISynthesisService) INoteController {
	return &noteController{
		synthesisService: synthesisService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/patient/v1")
	h.Post(":id/notes", c.Synthesize)
	h.Get(":id/notes", c.GetNotes)
}

// Synthesize accepts clinical document images under the "documents" form
// field and runs them through the OCR + standardization pass.
func (c *noteController) Synthesize(ctx *fiber.Ctx) error {
	patientId := ctx.Params("id")

	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Multipart form is required"))
	}

	files := form.File["documents"]
	if len(files) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "At least one document image is required"))
	}
	if len(files) > maxDocumentPages {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Too many document pages"))
	}

	images := make([]synthesis.ImagePart, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Failed to read uploaded file"))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Failed to read uploaded file"))
		}

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}

		images = append(images, synthesis.ImagePart{
			MimeType: mimeType,
			Data:     data,
		})
	}

	res, err := c.synthesisService.SynthesizeNote(ctx.Context(), patientId, images)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Patient not found"))
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Note synthesized", res))
}

func (c *noteController) GetNotes(ctx *fiber.Ctx) error {
	patientId := ctx.Params("id")

	res, err := c.synthesisService.GetNotes(ctx.Context(), patientId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Patient not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Note history", res))
}
