// Package models contains data structures for the application's domain models.
package models

import "github.com/gofiber/fiber/v2"

// Envelope is the body shape of every API response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"Data"`
	Code       string `json:"code,omitempty"`
}

// Respond writes a success envelope.
func Respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}
