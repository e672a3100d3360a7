package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ypeng90/shopper/internal/services"
	"github.com/ypeng90/shopper/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
	Secret   string
	Log      *zap.SugaredLogger
}

// List returns every product the user has added.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	uid := userID(c, h.Secret)
	if uid == 0 {
		return c.JSON(fiber.Map{"authenticated": false, "products": []any{}, "message": "Not authenticated."})
	}

	products, err := h.Products.ListProducts(uid)
	if err != nil {
		h.Log.Errorw("list products failed", "userid", uid, "error", err)
		return c.JSON(fiber.Map{"authenticated": true, "products": []any{}, "message": "Server error."})
	}
	return c.JSON(fiber.Map{"authenticated": true, "products": products, "message": ""})
}

type addProductRequest struct {
	Store   string `json:"store"`
	Product struct {
		SKU  string `json:"sku"`
		Name string `json:"name"`
	} `json:"product"`
}

// Add stores a new tracked product.
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	uid := userID(c, h.Secret)
	if uid == 0 {
		return c.JSON(fiber.Map{"authenticated": false, "message": "Not authenticated."})
	}

	var req addProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "message": "Invalid request."})
	}

	added, err := h.Products.AddProduct(uid, req.Product.SKU, req.Product.Name, req.Store)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "message": "Invalid input."})
	case err != nil:
		h.Log.Errorw("add product failed", "userid", uid, "error", err)
		return c.JSON(fiber.Map{"authenticated": true, "message": "Server error."})
	case !added:
		return c.JSON(fiber.Map{"authenticated": true, "message": "Add failed."})
	}
	return c.JSON(fiber.Map{"authenticated": true, "message": "Add succeeded."})
}

type updateProductRequest struct {
	Product struct {
		SKU   string `json:"sku"`
		Store string `json:"store"`
		Track bool   `json:"track"`
	} `json:"product"`
}

// Update flips the tracked flag on an existing product.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	uid := userID(c, h.Secret)
	if uid == 0 {
		return c.JSON(fiber.Map{"authenticated": false, "message": "Not authenticated."})
	}

	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "message": "Invalid request."})
	}

	updated, err := h.Products.SetTrack(uid, req.Product.SKU, req.Product.Store, req.Product.Track)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "message": "Invalid input."})
	case err != nil:
		h.Log.Errorw("update product failed", "userid", uid, "error", err)
		return c.JSON(fiber.Map{"authenticated": true, "message": "Server error."})
	case !updated:
		return c.JSON(fiber.Map{"authenticated": true, "message": "Update failed."})
	}
	return c.JSON(fiber.Map{"authenticated": true, "message": "Update succeeded."})
}

type searchRequest struct {
	Store   string `json:"store"`
	Keyword string `json:"keyword"`
}

// Search resolves a UPC/TCIN keyword against one chain's catalog.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	uid := userID(c, h.Secret)
	if uid == 0 {
		return c.JSON(fiber.Map{"authenticated": false, "product": fiber.Map{}, "message": "Not authenticated."})
	}

	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "product": fiber.Map{}, "message": "Invalid request."})
	}
	keyword, ok := validate.Keyword(req.Keyword)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "product": fiber.Map{}, "message": "Invalid input."})
	}
	store, ok := validate.Store(req.Store)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "product": fiber.Map{}, "message": "Invalid input."})
	}

	product := h.Products.Search(c.Context(), store, keyword)
	if product == nil {
		return c.JSON(fiber.Map{"authenticated": true, "product": fiber.Map{}, "message": "Not found."})
	}
	return c.JSON(fiber.Map{"authenticated": true, "product": product, "message": ""})
}

type zipcodeRequest struct {
	Zipcode string `json:"zipcode"`
}

// UpdateZipcode saves the user's zipcode asynchronously.
func (h *ProductHandler) UpdateZipcode(c *fiber.Ctx) error {
	uid := userID(c, h.Secret)
	if uid == 0 {
		return c.JSON(fiber.Map{"authenticated": false, "message": "Not authenticated."})
	}

	var req zipcodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "message": "Invalid request."})
	}
	if err := h.Products.UpdateZipcode(uid, req.Zipcode); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"authenticated": true, "message": "Invalid zipcode."})
	}
	return c.JSON(fiber.Map{"authenticated": true, "message": ""})
}
