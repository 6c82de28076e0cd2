package v1

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/telemark/sveve-gateway/pkg/sveve/notify"
	"go.uber.org/zap"
)

type Handler struct {
	logger     *zap.Logger
	dispatcher *notify.Dispatcher
}

func NewHandler(logger *zap.Logger, dispatcher *notify.Dispatcher) *Handler {
	return &Handler{logger: logger, dispatcher: dispatcher}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Notify(c *fiber.Ctx) error {
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		query.Add(string(key), string(value))
	})

	result := h.dispatcher.Dispatch(c.UserContext(), query)

	if result.Status == fiber.StatusBadRequest {
		h.logger.Warn("rejected notification",
			zap.String("reason", result.Body),
			zap.String("query", c.Context().QueryArgs().String()))
	}

	if result.Body == "" {
		return c.SendStatus(result.Status)
	}
	return c.Status(result.Status).SendString(result.Body)
}
