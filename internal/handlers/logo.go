package handlers

import (
	"bytes"
	"encoding/base64"
	"net/http"

	"github.com/disintegration/imaging"

	"github.com/lakbill/billing-app/internal/httpx"
	"github.com/lakbill/billing-app/internal/store"
)

const maxLogoSizeBytes int64 = 5 * 1024 * 1024

// logoMaxWidth keeps embedded logos small enough for the PDF and the blob store.
const logoMaxWidth = 512

// LogoHandler decodes an uploaded logo image and embeds it into the company
// details as a data URL. Uploads are serialized through the store's
// generation token: starting a new upload cancels any in-flight one.
type LogoHandler struct {
	Store *store.Store
}

func NewLogoHandler(s *store.Store) *LogoHandler {
	return &LogoHandler{Store: s}
}

// Upload: POST /api/company/logo – multipart field "logo".
func (h *LogoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoSizeBytes)
	if err := r.ParseMultipartForm(maxLogoSizeBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "upload_too_large_or_malformed", nil)
		return
	}
	file, _, err := r.FormFile("logo")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_logo_file", nil)
		return
	}
	defer file.Close()

	gen := h.Store.BeginLogoUpload()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unsupported_image", nil)
		return
	}
	if img.Bounds().Dx() > logoMaxWidth {
		img = imaging.Resize(img, logoMaxWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encode_failed", nil)
		return
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	notice, err := h.Store.CompleteLogoUpload(gen, dataURL)
	if err != nil {
		httpx.JSONError(w, http.StatusConflict, "upload_superseded", map[string]string{"message": notice})
		return
	}
	httpx.JSONNotice(w, notice, nil)
}
