package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// RequestContext - кладёт в UserContext контекст запроса. Он отменяется, когда
// отменён base (остановка сервера), и сразу после ответа. Обрыв соединения
// клиентом fasthttp не сигнализирует, такой запрос дорабатывает до конца.
func RequestContext(base context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(c.UserContext())
		stop := context.AfterFunc(base, cancel)
		defer func() {
			stop()
			cancel()
		}()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
