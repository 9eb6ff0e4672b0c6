package validation

import "github.com/gofiber/fiber/v2"

// ParseBody decodes the JSON body into dst and validates it. It returns nil
// on success, otherwise field messages for response.ValidationError.
func ParseBody(c *fiber.Ctx, dst interface{}) map[string]string {
	if err := c.BodyParser(dst); err != nil {
		return map[string]string{"body": "Invalid request body"}
	}
	if err := Struct(dst); err != nil {
		return FieldErrors(err)
	}
	return nil
}
