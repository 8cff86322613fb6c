package controller

import (
	"ai-contentgen-be/internal/dto"
	"ai-contentgen-be/internal/pkg/serverutils"
	"ai-contentgen-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPipelineController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type pipelineController struct {
	pipelineService service.IPipelineService
}

func NewPipelineController(pipelineService service.IPipelineService) IPipelineController {
	return &pipelineController{
		pipelineService: pipelineService,
	}
}

func (c *pipelineController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pipeline/v1")
	h.Get("health", c.Health) // registered before the auth middleware, stays public
	h.Use(serverutils.JwtMiddleware)
	h.Post("process", c.Process)
	h.Post("analyze", c.Analyze)
	h.Get("session/:id", c.GetSession)
	h.Delete("session/:id", c.ResetSession)
}

func (c *pipelineController) Process(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)

	var req dto.ProcessRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.pipelineService.Process(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process input", res))
}

func (c *pipelineController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.pipelineService.Analyze(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze input", res))
}

func (c *pipelineController) GetSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	res, err := c.pipelineService.GetSession(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.FailResponse("Session not found or expired"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *pipelineController) ResetSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	if err := c.pipelineService.ResetSession(ctx.Context(), sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", nil))
}

func (c *pipelineController) Health(ctx *fiber.Ctx) error {
	res, err := c.pipelineService.Health(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Service healthy", res))
}
