package auth

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/guest", func(c *fiber.Ctx) error {
		tokens, err := svc.IssueGuestToken()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
		}
		return c.Status(fiber.StatusCreated).JSON(tokens)
	})
}
