package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/http/response"
	"github.com/avrentops/rentalctl/internal/repository"
)

type CatalogHandler struct {
	catalog  repository.CatalogRepository
	activity repository.ActivityRepository
}

func NewCatalogHandler(catalog repository.CatalogRepository, activity repository.ActivityRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, activity: activity}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		writeError(w, r, err)
		return
	}
	include, _ := strconv.ParseBool(r.URL.Query().Get("includeSubcategories"))
	if !include {
		for i := range categories {
			categories[i].Subcategories = nil
		}
	}
	response.JSON(w, r, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.FindCategory(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, category)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if !decodeJSON(w, r, &category) {
		return
	}
	if category.Name == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name is required", nil)
		return
	}
	if err := h.catalog.CreateCategory(&category); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "category", category.ID, category.Name)
	response.JSON(w, r, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	existing, err := h.catalog.FindCategory(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var category domain.Category
	if !decodeJSON(w, r, &category) {
		return
	}
	category.ID = existing.ID
	category.CreatedAt = existing.CreatedAt
	category.Subcategories = nil
	if err := h.catalog.UpdateCategory(&category); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "category", category.ID, category.Name)
	response.JSON(w, r, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteCategory(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "category", id, "")
	response.Message(w, r, http.StatusOK, "category deleted")
}

func (h *CatalogHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var sub domain.Subcategory
	if !decodeJSON(w, r, &sub) {
		return
	}
	if sub.Name == "" || sub.CategoryID == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name and category_id are required", nil)
		return
	}
	if _, err := h.catalog.FindCategory(sub.CategoryID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.catalog.CreateSubcategory(&sub); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "CREATE", "subcategory", sub.ID, sub.Name)
	response.JSON(w, r, http.StatusCreated, sub)
}

func (h *CatalogHandler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	existing, err := h.catalog.FindSubcategory(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var sub domain.Subcategory
	if !decodeJSON(w, r, &sub) {
		return
	}
	sub.ID = existing.ID
	sub.CategoryID = existing.CategoryID
	sub.CreatedAt = existing.CreatedAt
	if err := h.catalog.UpdateSubcategory(&sub); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "UPDATE", "subcategory", sub.ID, sub.Name)
	response.JSON(w, r, http.StatusOK, sub)
}

func (h *CatalogHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteSubcategory(id); err != nil {
		writeError(w, r, err)
		return
	}
	audit(h.activity, r, "DELETE", "subcategory", id, "")
	response.Message(w, r, http.StatusOK, "subcategory deleted")
}
