package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
)

// DashboardIndexAction serves the pre-rendered dashboard page. The page is
// rendered once at startup; requests only copy bytes.
func DashboardIndexAction(page []byte) cartridge.HandlerFunc {
	return func(ctx *cartridge.Context) error {
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		ctx.Set(fiber.HeaderCacheControl, "no-cache")
		return ctx.Send(page)
	}
}
