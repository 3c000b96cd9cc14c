// internal/handler/category.go
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	store storage.CategoryStorage
}

func NewCategoryHandler(store storage.CategoryStorage) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// Create handles POST /categories. A taken name is a conflict.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validateStruct(req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}

	category := domain.Category{
		CategoryID: uuid.New(),
		Name:       req.Name,
		IsActive:   true,
	}

	created, err := h.store.CreateCategory(c.Request.Context(), category)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			errorBody(c, http.StatusConflict,
				fmt.Sprintf("A category named '%s' already exists.", req.Name))
			return
		}
		slog.Error("Create category failed", "error", err, "name", req.Name)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while creating the category '%s'. Please try again later.", req.Name))
		return
	}

	slog.Info("Category created", "category_id", created.CategoryID, "name", created.Name)
	c.JSON(http.StatusCreated, created)
}

// Get handles GET /categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := h.store.CategoryByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusNotFound,
				fmt.Sprintf("No category found with ID '%s'. Please check the ID and try again.", id))
			return
		}
		slog.Error("Get category failed", "error", err, "category_id", id)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while retrieving the category with ID '%s'. Please try again later.", id))
		return
	}
	c.JSON(http.StatusOK, category)
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("List categories failed", "error", err)
		errorBody(c, http.StatusInternalServerError,
			"An unexpected error occurred while retrieving the list of categories. Please try again later.")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// Update handles PUT /categories/:id with a partial body.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validateStruct(req); err != nil {
		errorBody(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.store.CategoryByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusNotFound,
				fmt.Sprintf("No category found with ID '%s' for update. Please check the ID and try again.", id))
			return
		}
		slog.Error("Get category failed", "error", err, "category_id", id)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while updating the category with ID '%s'. Please try again later.", id))
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	updated, err := h.store.UpdateCategory(c.Request.Context(), category)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			errorBody(c, http.StatusConflict,
				fmt.Sprintf("A category named '%s' already exists.", category.Name))
			return
		}
		slog.Error("Update category failed", "error", err, "category_id", id)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while updating the category with ID '%s'. Please try again later.", id))
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorBody(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.store.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorBody(c, http.StatusNotFound,
				fmt.Sprintf("No category found with ID '%s' for deletion. Please check the ID and try again.", id))
			return
		}
		slog.Error("Delete category failed", "error", err, "category_id", id)
		errorBody(c, http.StatusInternalServerError,
			fmt.Sprintf("An unexpected error occurred while deleting the category with ID '%s'. Please try again later.", id))
		return
	}

	slog.Info("Category deleted", "category_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "result": true})
}

// === DTO ===

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	IsActive *bool   `json:"is_active"`
}
