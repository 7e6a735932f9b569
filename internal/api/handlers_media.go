package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/respond"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/media"
)

// multipartOverhead leaves room for form boundaries and fields around the file.
const multipartOverhead = 1 << 20

type MediaHandler struct {
	uploader media.Uploader
	maxBytes int64
	log      zerolog.Logger
}

func NewMediaHandler(u media.Uploader, maxBytes int64, log zerolog.Logger) *MediaHandler {
	if maxBytes <= 0 {
		maxBytes = media.DefaultMaxBytes
	}
	return &MediaHandler{uploader: u, maxBytes: maxBytes, log: log}
}

// Upload POST /api/media (multipart: file, accept=image|video|both)
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return respond.TooLarge(media.ErrTooLarge.Error())
		}
		return respond.BadRequest("Invalid multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	accept, err := media.ParseAcceptMode(r.FormValue("accept"))
	if err != nil {
		return respond.BadRequest(err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return respond.BadRequest("file is required")
	}
	defer func() { _ = file.Close() }()

	m, err := h.uploader.Upload(r.Context(), media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, accept)
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		return respond.Unsupported(err.Error())
	case errors.Is(err, media.ErrTooLarge):
		return respond.TooLarge(err.Error())
	case err != nil:
		h.log.Error().Stack().Err(err).Str("file", header.Filename).Msg("media upload failed")
		return respond.Internal("upload failed", err)
	}
	respond.WriteJSON(w, http.StatusCreated, m)
	return nil
}
