package run

import (
	"errors"

	"backend-runhub/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, recorder Recorder, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			UserID string        `json:"user_id"`
			Start  *geo.Position `json:"start,omitempty"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.UserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id required")
		}
		session, err := svc.StartSession(req.UserID, req.Start)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	r.Post("/sessions/:id/positions", authMiddleware, func(c *fiber.Ctx) error {
		var req geo.Position
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		state, err := svc.AddPosition(c.Params("id"), req)
		if err != nil {
			return statusError(err)
		}
		return c.JSON(state)
	})

	r.Post("/sessions/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		state, err := svc.Pause(c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(state)
	})

	r.Post("/sessions/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		state, err := svc.Resume(c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(state)
	})

	r.Post("/sessions/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		final, err := svc.Stop(c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(final)
	})

	r.Post("/sessions/:id/save", authMiddleware, func(c *fiber.Ctx) error {
		recordID, err := svc.Save(c.Context(), c.Params("id"), recorder)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrNotStopped) {
				return statusError(err)
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"record_id": recordID})
	})

	r.Delete("/sessions/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Discard(c.Params("id")); err != nil {
			return statusError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/sessions/:id", func(c *fiber.Ctx) error {
		state, err := svc.Snapshot(c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(state)
	})

	r.Get("/sessions/:id/region", func(c *fiber.Ctx) error {
		region, err := svc.Region(c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(region)
	})
}

func statusError(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusConflict, err.Error())
}
