// internal/transport/http/handlers_admin.go
package httptransport

import (
	"net/http"
	"strconv"

	"membership-portal/internal/common/errors"
	routeguard "membership-portal/internal/features/access/route-guard"
	exportapplications "membership-portal/internal/features/admin/export-applications"
	listapplications "membership-portal/internal/features/admin/list-applications"
)

func (h *Handler) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	submittedOnly := false
	if v := r.URL.Query().Get("submittedOnly"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(w, r, errors.NewInvalidRequestError("submittedOnly must be a boolean"))
			return
		}
		submittedOnly = b
	}

	out, err := h.list.Execute(r.Context(), &listapplications.Input{SubmittedOnly: submittedOnly})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	out, err := h.export.Execute(r.Context(), &exportapplications.Input{})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(out.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Content); err != nil {
		h.logger.Warn("export download interrupted", map[string]interface{}{
			"requestId": RequestID(r.Context()),
			"error":     err.Error(),
		})
	}
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	d, ok := h.resolve(w, r, routeguard.ViewAdmin)
	if !ok {
		return false
	}
	if d.View != routeguard.ViewAdmin {
		h.fail(w, r, denied(d, SessionFrom(r.Context())))
		return false
	}
	return true
}
