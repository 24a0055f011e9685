package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/rsvp/internal/service"
)

// maxUploadBytes bounds an uploaded CSV file.
const maxUploadBytes = 10 << 20

type csvHandler struct {
	admin *service.AdminService
}

// importGuests accepts a raw CSV body, or a multipart form with a "file"
// part, and reports the import as JSON.
func (h *csvHandler) importGuests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := chimw.GetReqID(ctx)

	body, err := readUpload(w, r)
	if err != nil {
		slog.Warn("CSV upload rejected", "request_id", reqID, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.admin.ImportCSV(ctx, string(body))
	if err != nil {
		slog.Error("CSV import failed", "request_id", reqID, "error", err)
		writeError(w, statusOf(err), err.Error())
		return
	}

	slog.Info("CSV import completed",
		"request_id", reqID,
		"rows", resp.RowsProcessed,
		"created", resp.SuccessCount,
		"failed", resp.ErrorCount,
	)
	writeJSON(w, http.StatusOK, resp)
}

func (h *csvHandler) exportGuests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := h.admin.WriteExport(ctx, &buf); err != nil {
		slog.Error("CSV export failed", "request_id", chimw.GetReqID(ctx), "error", err)
		writeError(w, statusOf(err), err.Error())
		return
	}

	filename := fmt.Sprintf("guest_list_%s.csv", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("reading file part: %w", err)
		}
		defer file.Close()
		body, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("reading file part: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("empty upload")
	}
	return body, nil
}

// statusOf maps an engine error onto an HTTP status.
func statusOf(err error) int {
	switch service.CodeOf(err) {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeAborted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
