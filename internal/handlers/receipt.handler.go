package handlers

import (
	"lunchlog/internal/app"
	receiptController "lunchlog/internal/controllers/receipts"
	"lunchlog/internal/handlers/middleware"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReceiptHandler struct {
	Handler
	receiptController receiptController.ReceiptControllerInterface
}

func NewReceiptHandler(app app.App, router fiber.Router) *ReceiptHandler {
	log := logger.New("handlers").File("receipt_handler")
	return &ReceiptHandler{
		receiptController: app.Controllers.Receipt,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReceiptHandler) Register() {
	receipts := h.router.Group("/receipts")
	receipts.Post("/", h.createReceipt)
	receipts.Get("/", h.listReceipts)
	receipts.Get("/:id", h.getReceipt)
	receipts.Patch("/:id", h.updateReceipt)
	receipts.Delete("/:id", h.deleteReceipt)
}

func (h *ReceiptHandler) createReceipt(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var request types.CreateReceiptRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	receipt, err := h.receiptController.Create(c.UserContext(), user, &request)
	if err != nil {
		return respondError(
			c,
			err,
			receiptController.ErrValidation,
			receiptController.ErrNotFound,
			"Failed to create receipt",
		)
	}

	return c.Status(fiber.StatusCreated).JSON(receipt)
}

func (h *ReceiptHandler) listReceipts(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	receipts, err := h.receiptController.List(c.UserContext(), user, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err, receiptController.ErrValidation, nil, "Failed to list receipts")
	}

	return c.JSON(fiber.Map{
		"receipts": receipts,
		"count":    len(receipts),
	})
}

func (h *ReceiptHandler) getReceipt(c *fiber.Ctx) error {
	receiptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidReceiptID(c)
	}

	receipt, err := h.receiptController.Get(c.UserContext(), middleware.GetUser(c), receiptID)
	if err != nil {
		return h.respond(c, err, "Failed to get receipt")
	}

	return c.JSON(receipt)
}

func (h *ReceiptHandler) updateReceipt(c *fiber.Ctx) error {
	receiptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidReceiptID(c)
	}

	var request types.UpdateReceiptRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	receipt, err := h.receiptController.Update(c.UserContext(), middleware.GetUser(c), receiptID, &request)
	if err != nil {
		return h.respond(c, err, "Failed to update receipt")
	}

	return c.JSON(receipt)
}

func (h *ReceiptHandler) deleteReceipt(c *fiber.Ctx) error {
	receiptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidReceiptID(c)
	}

	if err := h.receiptController.Delete(c.UserContext(), middleware.GetUser(c), receiptID); err != nil {
		return h.respond(c, err, "Failed to delete receipt")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReceiptHandler) respond(c *fiber.Ctx, err error, message string) error {
	return respondError(c, err, receiptController.ErrValidation, receiptController.ErrNotFound, message)
}

func invalidReceiptID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid receipt ID",
	})
}
