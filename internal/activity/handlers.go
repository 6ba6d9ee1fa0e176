package activity

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Alpha-Auxiliary/fitGenerator/internal/auth"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/encode"
	"github.com/Alpha-Auxiliary/fitGenerator/internal/importer"

	"github.com/gofiber/fiber/v2"
)

const headerExportID = "X-Export-Id"

func RegisterRoutes(r fiber.Router, svc *Service, ownerMiddleware fiber.Handler) {
	r.Post("/preview", func(c *fiber.Ctx) error {
		var req PreviewRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		res, err := svc.Preview(c.Context(), req)
		if err != nil {
			return activityError(err)
		}
		if strings.EqualFold(c.Query("format"), string(encode.FormatCSV)) {
			data, err := encode.EncodeCSV(res.Samples)
			if err != nil {
				return activityError(fmt.Errorf("%w: %v", ErrEncoding, err))
			}
			c.Set(fiber.HeaderContentType, encode.FormatCSV.ContentType())
			return c.Send(data)
		}
		return c.JSON(res)
	})

	r.Post("/generate-fit", ownerMiddleware, exportHandler(svc, encode.FormatFIT))
	r.Post("/generate-gpx", ownerMiddleware, exportHandler(svc, encode.FormatGPX))

	r.Post("/generate-batch", ownerMiddleware, func(c *fiber.Ctx) error {
		var req BatchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f, err := svc.ExportBatch(c.Context(), auth.OwnerID(c), req)
		if err != nil {
			return activityError(err)
		}
		return sendFile(c, f)
	})

	r.Post("/import", func(c *fiber.Ctx) error {
		data, name, err := uploadedRoute(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		format := importer.Format(strings.ToLower(c.Query("format")))
		if format == "" {
			if format, err = importer.FormatFromPath(name); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "format query parameter is required")
			}
		}

		points, err := importer.Parse(format, data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(ImportResponse{Points: points})
	})
}

func exportHandler(svc *Service, format encode.Format) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ExportRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.Format = string(format)
		f, err := svc.Export(c.Context(), auth.OwnerID(c), req)
		if err != nil {
			return activityError(err)
		}
		return sendFile(c, f)
	}
}

func sendFile(c *fiber.Ctx, f File) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", f.Name))
	if len(f.ExportIDs) > 0 {
		c.Set(headerExportID, strings.Join(f.ExportIDs, ","))
	}
	return c.Send(f.Data)
}

// uploadedRoute reads a multipart "file" field, or the raw body otherwise.
func uploadedRoute(c *fiber.Ctx) ([]byte, string, error) {
	if fh, err := c.FormFile("file"); err == nil {
		file, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		return data, fh.Filename, err
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, "", errors.New("route file is required")
	}
	return append([]byte(nil), body...), "", nil
}

func activityError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDegenerateRoute):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	log.Printf("activity generation failed: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "failed to generate activity")
}
