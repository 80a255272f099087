package v1

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"datapulse/internal/analytics"
)

// NewAggregatesHandler serializes the aggregates once and returns a handler
// serving that document.
func NewAggregatesHandler(aggregates *analytics.Aggregates) (cartridge.HandlerFunc, error) {
	if aggregates == nil {
		return nil, errors.New("aggregates are required")
	}

	body, err := json.Marshal(aggregates)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize aggregates: %w", err)
	}

	return func(ctx *cartridge.Context) error {
		ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return ctx.Send(body)
	}, nil
}
