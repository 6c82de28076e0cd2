package api

import (
	"github.com/gofiber/fiber/v2"
	v1 "github.com/telemark/sveve-gateway/internal/api/v1"
)

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)

	// The API posts every notification kind to the same callback URL.
	app.Get("/sveve/notify", handler.Notify)
	app.Post("/sveve/notify", handler.Notify)
}
