package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clickhouse-shop/clickhouse/internal/catalog"
	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

type productPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	Image       string  `json:"image"`
}

func (h *handler) listProducts(c echo.Context) error {
	// Pagination: accept both perPage (from front-end) and pageSize
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	} else if _, ps := parsePagination(c); ps > 0 {
		pageSize = ps
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	nameFilter := strings.TrimSpace(c.QueryParam("name"))
	category := strings.TrimSpace(c.QueryParam("category"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	// whitelist allowed sort columns
	allowed := map[string]bool{
		"id":         true,
		"name":       true,
		"price":      true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowed[sortField] {
		sortField = "id"
	}

	rows := h.app.Catalog().Products()
	filtered := rows[:0]
	for _, p := range rows {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			continue
		}
		if nameFilter != "" && p.Name != nameFilter {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if order == "DESC" {
			a, b = b, a
		}
		switch sortField {
		case "name":
			return a.Name < b.Name
		case "price":
			return a.Price < b.Price
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.ID < b.ID
		}
	})

	total := int64(len(filtered))
	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return paged(c, filtered[start:end], total, page, pageSize)
}

func (h *handler) getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, found := h.app.Catalog().Find(id)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func (h *handler) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	saved, err := h.app.Catalog().SaveProduct(context.Background(), domain.Product{
		Name:        strings.TrimSpace(payload.Name),
		Price:       payload.Price,
		Description: strings.TrimSpace(payload.Description),
		Category:    strings.TrimSpace(payload.Category),
		Icon:        strings.TrimSpace(payload.Icon),
		Image:       strings.TrimSpace(payload.Image),
	})
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	h.audit(c, "product.create", fmt.Sprintf("created product %d %s", saved.ID, saved.Name))
	return ok(c, saved)
}

func (h *handler) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	existing, found := h.app.Catalog().Find(id)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	existing.Name = strings.TrimSpace(payload.Name)
	existing.Price = payload.Price
	existing.Description = strings.TrimSpace(payload.Description)
	existing.Category = strings.TrimSpace(payload.Category)
	existing.Icon = strings.TrimSpace(payload.Icon)
	existing.Image = strings.TrimSpace(payload.Image)

	saved, err := h.app.Catalog().SaveProduct(context.Background(), existing)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	h.audit(c, "product.update", fmt.Sprintf("updated product %d %s", saved.ID, saved.Name))
	return ok(c, saved)
}

func (h *handler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := h.app.Catalog().DeleteProduct(context.Background(), id); err != nil {
		if err == catalog.ErrProductNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DELETE_ERROR", "Failed to delete product", err.Error())
	}

	h.audit(c, "product.delete", fmt.Sprintf("deleted product %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
