package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
	"github.com/teamform/wellboard/internal/validation"
)

// maxUploadSize bounds one multipart upload.
const maxUploadSize = 32 << 20 // 32 MiB

type FilesHandler struct {
	files *services.FileService
	roles *auth.RoleMiddleware
}

func NewFilesHandler(files *services.FileService, roles *auth.RoleMiddleware) *FilesHandler {
	return &FilesHandler{
		files: files,
		roles: roles,
	}
}

func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/upload", h.Upload)
	r.Post("/folder", h.CreateFolder)
	r.Get("/{fileID}/download", h.Download)
	r.Delete("/{fileID}", h.Delete)

	return r
}

func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer src.Close()

	var parentID *uuid.UUID
	if v := r.FormValue("parent_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid parent ID")
			return
		}
		parentID = &parsed
	}

	file, err := h.files.Upload(r.Context(), userID, parentID, header.Filename, header.Header.Get("Content-Type"), src)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSONResponse(w, http.StatusCreated, file)
}

func (h *FilesHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.files.CreateFolder(r.Context(), userID, req)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSONResponse(w, http.StatusCreated, folder)
}

func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var parentID *uuid.UUID
	if v := r.URL.Query().Get("parent"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid parent ID")
			return
		}
		parentID = &parsed
	}

	files, err := h.files.List(r.Context(), userID, parentID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	writeJSONResponse(w, http.StatusOK, files)
}

func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	isStaff, err := h.roles.IsStaff(userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to check permissions")
		return
	}

	file, payload, err := h.files.Open(r.Context(), fileID, userID, isStaff)
	if err != nil {
		writeFileError(w, err)
		return
	}
	defer payload.Close()

	if file.MimeType != "" {
		w.Header().Set("Content-Type", file.MimeType)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.OriginalName+`"`)
	io.Copy(w, payload)
}

func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	isStaff, err := h.roles.IsStaff(userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to check permissions")
		return
	}

	if err := h.files.Delete(r.Context(), fileID, userID, isStaff); err != nil {
		writeFileError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func writeFileError(w http.ResponseWriter, err error) {
	switch {
	case database.IsNotFoundError(err):
		writeErrorResponse(w, http.StatusNotFound, "File not found")
	case errors.Is(err, services.ErrForbidden):
		writeErrorResponse(w, http.StatusForbidden, "Insufficient privileges")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "File operation failed")
	}
}
