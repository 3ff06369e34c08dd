package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staffsync/hrops-backend-go/internal/domain/imports"
	"github.com/staffsync/hrops-backend-go/internal/handler/http/response"
)

// maxUploadBytes caps employee import uploads at 5 MB.
const maxUploadBytes = 5 << 20

// displayRowCap limits how many row results a single response carries.
// The full set stays available through the error report download.
const displayRowCap = 200

type ImportHandler struct {
	svc imports.ImportService
}

func NewImportHandler(svc imports.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

func parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return imports.ErrFileTooLarge
		}
		return err
	}
	return nil
}

func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := parseUpload(w, r); err != nil {
		response.HandleError(w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file upload", nil)
		return
	}
	defer file.Close()

	// An optional "mapping" form field overrides the inferred column
	// assignments, header text to target field.
	var overrides map[string]imports.TargetField
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			response.BadRequest(w, "Invalid mapping override", nil)
			return
		}
	}

	result, err := h.svc.Run(r.Context(), actor, header.Filename, file, overrides)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeImportResult(w, result)
}

func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := parseUpload(w, r); err != nil {
		response.HandleError(w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file upload", nil)
		return
	}
	defer file.Close()

	preview, err := h.svc.Preview(r.Context(), actor, header.Filename, file)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, preview)
}

func (h *ImportHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.svc.GetResult(r.Context(), actor, chi.URLParam(r, "sessionID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeImportResult(w, result)
}

func (h *ImportHandler) ErrorReport(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	// Buffered so a missing session still gets a proper error response.
	sessionID := chi.URLParam(r, "sessionID")
	var buf bytes.Buffer
	if err := h.svc.ErrorReport(r.Context(), actor, sessionID, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="import-errors-`+sessionID+`.csv"`)
	_, _ = buf.WriteTo(w)
}

// writeImportResult trims oversized row lists before responding so a
// 50k-row upload does not produce a 50k-entry JSON body.
func writeImportResult(w http.ResponseWriter, result *imports.Result) {
	if len(result.Rows) <= displayRowCap {
		response.Success(w, result)
		return
	}
	trimmed := *result
	trimmed.Rows = result.Rows[:displayRowCap]
	response.SuccessWithMeta(w, &trimmed, &response.Meta{Truncated: true})
}
