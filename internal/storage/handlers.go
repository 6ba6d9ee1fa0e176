package storage

import (
	"errors"
	"fmt"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/auth"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/encode"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		exports, err := svc.ListExports(c.Context(), auth.OwnerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(exports)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		e, err := svc.GetExport(c.Context(), auth.OwnerID(c), c.Params("id"))
		if err != nil {
			return exportError(err)
		}
		return c.JSON(e)
	})

	r.Get("/:id/download", authMiddleware, func(c *fiber.Ctx) error {
		e, err := svc.GetExport(c.Context(), auth.OwnerID(c), c.Params("id"))
		if err != nil {
			return exportError(err)
		}
		c.Set(fiber.HeaderContentType, encode.Format(e.Format).ContentType())
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", e.FileName))
		return c.Send(e.Data)
	})
}

func exportError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "export not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
