package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"campus_lost_found/internal/models"
	"campus_lost_found/internal/service"
	"campus_lost_found/internal/storage"

	"github.com/gin-gonic/gin"
)

// Fields posted by the create and edit forms. The image travels as a
// separate multipart part named "image".
type itemForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Status      string `form:"status"`
}

func (f itemForm) input(image string) service.ItemInput {
	return service.ItemInput{
		Title:         f.Title,
		Description:   f.Description,
		Status:        f.Status,
		ImageFilename: image,
	}
}

// parseID reads the :id path parameter. Anything that is not a positive
// integer cannot name an item and is answered with 404.
func (h *Handler) parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.renderNotFound(c)
		return 0, false
	}
	return id, true
}

// acceptImage stores the optional "image" upload and returns its stored name,
// or "" when no file was selected.
func (h *Handler) acceptImage(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return "", nil
	case err != nil:
		if isBodyTooLarge(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: read upload: %v", service.ErrValidation, err)
	}

	name, err := h.uploads.Accept(fh)
	switch {
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		return "", fmt.Errorf("%w: %w", service.ErrValidation, err)
	case err != nil:
		return "", fmt.Errorf("%w: %w", service.ErrStorageIO, err)
	}
	return name, nil
}

// discardImage drops an upload that could not be attached to an item.
func (h *Handler) discardImage(name string) {
	if name == "" {
		return
	}
	if res := h.uploads.Remove(name); res != storage.Removed {
		h.log.Infow("orphan_upload_not_removed", "file", name, "result", res.String())
	}
}

// @Summary      Dashboard
// @Description  Lists all items newest first, optionally filtered by status.
// @Tags         items
// @Produce      html
// @Param        status  query  string  false  "all | lost | found"
// @Success      200
// @Success      302  "not logged in, redirect to /"
// @Router       /dashboard [get]
func (h *Handler) dashboard(c *gin.Context) {
	filter := service.NormalizeFilter(c.Query("status"))
	items, err := h.services.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Errorw("item_list_failed", "filter", filter, "err", err)
		h.renderServerError(c)
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Items":  items,
		"Filter": filter,
	})
}

// @Summary      Search items
// @Description  Case-insensitive substring match on title or description. An empty query returns nothing.
// @Tags         items
// @Produce      html
// @Param        q  query  string  false  "Search text"
// @Success      200
// @Router       /search [get]
func (h *Handler) search(c *gin.Context) {
	query := c.Query("q")
	results, err := h.services.Search(c.Request.Context(), query)
	if err != nil {
		h.log.Errorw("item_search_failed", "query", query, "err", err)
		h.renderServerError(c)
		return
	}
	h.render(c, http.StatusOK, "search.html", gin.H{
		"Query":   query,
		"Results": results,
	})
}

// @Summary      New item form
// @Tags         items
// @Produce      html
// @Success      200
// @Router       /item/create [get]
func (h *Handler) createItemPage(c *gin.Context) {
	h.render(c, http.StatusOK, "create_item.html", gin.H{"Statuses": statuses})
}

// @Summary      Create item
// @Tags         items
// @Accept       multipart/form-data
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  false  "Description"
// @Param        status       formData  string  false  "lost | found"
// @Param        image        formData  file    false  "png, jpg, jpeg or gif"
// @Success      302  "redirect to /dashboard"
// @Failure      413  "request body too large"
// @Router       /item/create [post]
func (h *Handler) createItem(c *gin.Context) {
	var form itemForm
	if ok := h.bindFormOrRedirect(c, &form, "/item/create"); !ok {
		return
	}
	image, err := h.acceptImage(c)
	if err != nil {
		h.fail(c, err, "/item/create", "item_create_failed")
		return
	}

	user := currentUser(c)
	item, err := h.services.Create(c.Request.Context(), form.input(image), user.Email)
	if err != nil {
		h.discardImage(image)
		h.fail(c, err, "/item/create", "item_create_failed")
		return
	}

	h.log.Infow("item_created", "id", item.ID, "owner", item.OwnerEmail)
	h.setFlash(c, flashSuccess, "Item created.")
	c.Redirect(http.StatusFound, "/dashboard")
}

// @Summary      View item
// @Tags         items
// @Produce      html
// @Param        id  path  int  true  "Item ID"
// @Success      200
// @Failure      404
// @Router       /item/{id} [get]
func (h *Handler) viewItem(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	item, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/dashboard", "item_get_failed", "id", id)
		return
	}
	h.render(c, http.StatusOK, "item_view.html", gin.H{"Item": item})
}

// @Summary      Edit item form
// @Tags         items
// @Produce      html
// @Param        id  path  int  true  "Item ID"
// @Success      200
// @Failure      404
// @Router       /item/{id}/edit [get]
func (h *Handler) editItemPage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	item, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/dashboard", "item_get_failed", "id", id)
		return
	}
	h.render(c, http.StatusOK, "edit_item.html", gin.H{"Item": item, "Statuses": statuses})
}

// @Summary      Update item
// @Description  Overwrites title, description and status. A new image replaces the old one.
// @Tags         items
// @Accept       multipart/form-data
// @Param        id           path      int     true   "Item ID"
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  false  "Description"
// @Param        status       formData  string  false  "lost | found"
// @Param        image        formData  file    false  "png, jpg, jpeg or gif"
// @Success      302  "redirect to /item/{id}"
// @Failure      404
// @Failure      413  "request body too large"
// @Router       /item/{id}/edit [post]
func (h *Handler) editItem(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	editURL := fmt.Sprintf("/item/%d/edit", id)

	var form itemForm
	if ok := h.bindFormOrRedirect(c, &form, editURL); !ok {
		return
	}
	image, err := h.acceptImage(c)
	if err != nil {
		h.fail(c, err, editURL, "item_update_failed", "id", id)
		return
	}

	if _, err := h.services.Update(c.Request.Context(), id, form.input(image)); err != nil {
		h.discardImage(image)
		h.fail(c, err, editURL, "item_update_failed", "id", id)
		return
	}

	h.log.Infow("item_updated", "id", id)
	h.setFlash(c, flashSuccess, "Item updated.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/item/%d", id))
}

// @Summary      Delete item
// @Tags         items
// @Param        id  path  int  true  "Item ID"
// @Success      302  "redirect to /dashboard"
// @Failure      404
// @Router       /item/{id}/delete [post]
func (h *Handler) deleteItem(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "/dashboard", "item_delete_failed", "id", id)
		return
	}

	h.log.Infow("item_deleted", "id", id)
	h.setFlash(c, flashInfo, "Item deleted.")
	c.Redirect(http.StatusFound, "/dashboard")
}

var statuses = []models.Status{models.StatusLost, models.StatusFound}
