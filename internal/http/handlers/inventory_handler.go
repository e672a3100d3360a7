package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ypeng90/shopper/internal/services"
)

type InventoryHandler struct {
	Inv    *services.InventoryService
	Secret string
	Log    *zap.SugaredLogger
}

// Home renders the landing page and kicks off a background cache warm for
// the signed-in user so the first inventory request is cheap.
func (h *InventoryHandler) Home(c *fiber.Ctx) error {
	uid := userID(c, h.Secret)
	if uid != 0 {
		h.Inv.Preload(uid)
	}
	return c.Render("index", fiber.Map{"Authenticated": uid != 0})
}

type listInventoryRequest struct {
	Zipcode string `json:"zipcode"`
}

// List runs the synchronous refresh path and returns the aggregated
// store -> products view for the requested zipcode.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	uid := userID(c, h.Secret)
	if uid == 0 {
		return c.JSON(fiber.Map{"authenticated": false, "stores": []any{}, "message": "Not authenticated."})
	}

	var req listInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "stores": []any{}, "message": "Invalid request."})
	}

	stores, err := h.Inv.RefreshAndList(c.Context(), uid, req.Zipcode)
	switch {
	case errors.Is(err, services.ErrInvalidZipcode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "stores": []any{}, "message": "Invalid zipcode."})
	case err != nil:
		h.Log.Errorw("inventory refresh failed", "userid", uid, "error", err)
		return c.JSON(fiber.Map{"authenticated": true, "stores": []any{}, "message": "Server error."})
	}
	return c.JSON(fiber.Map{"authenticated": true, "stores": stores, "message": ""})
}
