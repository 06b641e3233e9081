// Package files exposes the object-storage operations over HTTP. Every
// handler is a single pass-through to the storage backend: a failed call
// fails the whole request, nothing is retried.
package files

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/filegate/service/internal/response"
	"github.com/filegate/service/internal/storage"
)

// Handler holds HTTP handlers for file endpoints. All routes are mounted
// behind the auth gate.
type Handler struct {
	store storage.Storage
}

// NewHandler creates a new files Handler.
func NewHandler(store storage.Storage) *Handler {
	return &Handler{store: store}
}

type listData struct {
	Files []string `json:"files"`
}

type renameRequest struct {
	NewName string `json:"new_name" example:"report-final.pdf"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Store the multipart "file" part under its original filename.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"File to upload"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file part in the request")
		return
	}
	defer file.Close()

	if err := h.store.Upload(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Message(w, http.StatusOK, fmt.Sprintf("File %s uploaded successfully", header.Filename))
}

// List godoc
//
//	@Summary		List files
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	listData
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.List(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listData{Files: keys})
}

// Download godoc
//
//	@Summary		Download a file
//	@Description	Stream the object as an attachment.
//	@Tags			files
//	@Produce		octet-stream
//	@Security		BearerAuth
//	@Param			name	path		string	true	"Object name"
//	@Success		200		{file}		binary
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/download/{name} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	obj, err := h.store.Download(r.Context(), name)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	_, _ = io.Copy(w, obj.Body)
}

// Modify godoc
//
//	@Summary		Replace a file
//	@Description	Overwrite the object at {name} with the multipart "file" part.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name	path		string	true	"Object name"
//	@Param			file	formData	file	true	"Replacement content"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/modify/{name} [put]
func (h *Handler) Modify(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file part in the request")
		return
	}
	defer file.Close()

	if err := h.store.Upload(r.Context(), name, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Message(w, http.StatusOK, fmt.Sprintf("File %s modified successfully", name))
}

// Rename godoc
//
//	@Summary		Rename a file
//	@Description	Server-side copy to new_name, then delete the original.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name	path		string			true	"Object name"
//	@Param			request	body		renameRequest	true	"New object name"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/rename/{name} [post]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewName == "" {
		response.BadRequest(w, "New file name not provided")
		return
	}

	if err := h.store.Rename(r.Context(), name, req.NewName); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Message(w, http.StatusOK, fmt.Sprintf("File %s renamed to %s successfully", name, req.NewName))
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name	path		string	true	"Object name"
//	@Success		200		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/delete/{name} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.store.Delete(r.Context(), name); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Message(w, http.StatusOK, fmt.Sprintf("File %s deleted successfully", name))
}
