package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	multipartOverhead = 1 << 20
	maxUploadBody     = storage.MaxVideoSize + multipartOverhead
	multipartMemory   = 8 << 20
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	storage   ObjectStore
}

func newUploadHandler(store ObjectStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()
	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		storage:   store,
	}
}

type deleteFilesRequest struct {
	FilePath  string   `json:"filePath"`
	FilePaths []string `json:"filePaths"`
}

// uploadFile stores an image or video in object storage
// @Summary Upload file
// @Description Images up to 10MB (JPEG, PNG, WebP, GIF), videos up to 50MB (MP4, WebM, QuickTime)
// @Tags Upload
// @Accept multipart/form-data
// @Param file formData file true "File"
// @Param folder formData string false "Folder, slugified; defaults to studio"
// @Success 200 {object} storage.Object
// @Failure 400 {object} errorResponse
// @Router /api/upload [post]
func (h uploadHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewUploadRejectedError("File too large. Max size: 50MB"))
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestError("No file provided"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("No file provided"))
			return
		}
		defer file.Close()

		contentType, err := detectContentType(file, header)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to upload file", err))
			return
		}

		object, err := h.storage.Upload(r.Context(), storage.File{
			Name:        header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		}, r.FormValue("folder"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("path", object.Path).Int64("size", object.Size).Msg("file uploaded")
		h.responder.WriteSuccess(w, http.StatusOK, object, "")
	}
}

// detectContentType trusts the part's declared type and sniffs the first
// bytes only when none (or a generic one) was sent.
func detectContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	declared := strings.TrimSpace(header.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}

	var sniff [512]byte
	n, err := io.ReadFull(file, sniff[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(sniff[:n]), nil
}

// deleteFiles removes one file or a batch
// @Summary Delete uploaded files
// @Tags Upload
// @Accept json
// @Param paths body deleteFilesRequest true "filePath or filePaths"
// @Success 200 {object} successResponse
// @Failure 400 {object} errorResponse "No file path provided"
// @Router /api/upload [delete]
func (h uploadHandler) deleteFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body deleteFilesRequest
		if err := decodeJSON(w, r, &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		paths := make([]string, 0, len(body.FilePaths)+1)
		if p := strings.TrimSpace(body.FilePath); p != "" {
			paths = append(paths, p)
		}
		for _, p := range body.FilePaths {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		if len(paths) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("No file path provided"))
			return
		}

		var err error
		if len(paths) == 1 {
			err = h.storage.Delete(r.Context(), paths[0])
		} else {
			err = h.storage.DeleteMany(r.Context(), paths)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message := "File deleted successfully"
		if len(paths) > 1 {
			message = "Files deleted successfully"
		}
		h.responder.WriteSuccess(w, http.StatusOK, nil, message)
	}
}
