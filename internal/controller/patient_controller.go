package controller

import (
	"clinical-synth-be/internal/dto"
	"clinical-synth-be/internal/pkg/serverutils"
	"clinical-synth-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPatientController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type patientController struct {
	patientService service.IPatientService
}

func NewPatientController(patientService service.IPatientService) IPatientController {
	return &patientController{
		patientService: patientService,
	}
}

func (c *patientController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/patient/v1")
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
}

func (c *patientController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePatientRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.patientService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Patient created", res))
}

func (c *patientController) List(ctx *fiber.Ctx) error {
	res, err := c.patientService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Patient list", res))
}

func (c *patientController) Show(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.patientService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Patient not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Patient detail", res))
}
