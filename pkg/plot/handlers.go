package plot

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/monitor"
)

type infoRequest struct {
	ID     int64                `json:"id"`
	Counts monitor.ClientCounts `json:"counts"`
}

type meterRequest struct {
	Value float64 `json:"value"`
}

type logRequest struct {
	Message string `json:"message"`
}

type configResponse struct {
	Template []monitor.ConfigField `json:"template"`
	Config   map[string]any        `json:"config"`
}

// handleHealth handles health check requests
func (d *Dashboard) handleHealth(w http.ResponseWriter, _ *http.Request) {
	lastUpdate := d.wsManager.LastUpdate()

	// unhealthy when no chart was redrawn within the staleness window
	if time.Since(lastUpdate) > d.staleAfter {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(lastUpdate.String())); err != nil {
			d.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex renders the page with one canvas per chart
func (d *Dashboard) handleIndex(w http.ResponseWriter, _ *http.Request) {
	surfaces := make([]any, 0, d.registry.Len())
	for _, c := range d.registry.Charts() {
		surfaces = append(surfaces, c.Surface())
	}

	w.Header().Set("Content-Type", "text/html")
	err := d.indexHTML.Execute(w, map[string]any{
		"title":    d.title,
		"surfaces": surfaces,
		"metrics":  d.monitor.MetricNames(),
	})
	if err != nil {
		d.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleScript serves the transpiled chart script
func (d *Dashboard) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprint(w, d.scriptContent)
}

// handleCharts returns a snapshot of every chart
func (d *Dashboard) handleCharts(w http.ResponseWriter, _ *http.Request) {
	d.writeJSON(w, http.StatusOK, d.registry.Snapshots())
}

// handleInfo returns what the client has not seen yet
func (d *Dashboard) handleInfo(w http.ResponseWriter, r *http.Request) {
	var request infoRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d.writeJSON(w, http.StatusOK, d.monitor.CheckInfo(request.Counts, request.ID))
}

func (d *Dashboard) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	d.writeJSON(w, http.StatusOK, configResponse{
		Template: d.monitor.Template(),
		Config:   d.monitor.Config(),
	})
}

func (d *Dashboard) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := d.monitor.UpdateConfig(r.Context(), values); err != nil {
		d.writeError(w, err)
		return
	}

	d.handleGetConfig(w, r)
}

func (d *Dashboard) handleMeter(w http.ResponseWriter, r *http.Request) {
	var request meterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := d.monitor.Meter(mux.Vars(r)["name"], request.Value); err != nil {
		d.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) handleLog(w http.ResponseWriter, r *http.Request) {
	var request logRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Message == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d.monitor.Log(request.Message)
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) handleBackups(w http.ResponseWriter, _ *http.Request) {
	d.writeJSON(w, http.StatusOK, d.monitor.Backups())
}

func (d *Dashboard) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	summary, err := d.monitor.Backup(r.Context())
	if err != nil {
		d.writeError(w, err)
		return
	}

	d.writeJSON(w, http.StatusCreated, summary)
}

func (d *Dashboard) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid backup id", http.StatusBadRequest)
		return
	}

	if err := d.monitor.Restore(r.Context(), id); err != nil {
		d.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHistory exports the samples of a metric as CSV
func (d *Dashboard) handleHistory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("metric")
	if name == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	values, err := d.monitor.Series(name)
	if err != nil {
		d.writeError(w, err)
		return
	}

	buffer := bytes.NewBuffer(nil)
	csvWriter := csv.NewWriter(buffer)

	if err := csvWriter.Write([]string{"sample", name}); err != nil {
		d.log.Error("Failed writing CSV header: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	for i, value := range values {
		row := []string{strconv.Itoa(i + 1), strconv.FormatFloat(value, 'f', -1, 64)}
		if err := csvWriter.Write(row); err != nil {
			d.log.Error("Failed writing CSV data: ", err)
			http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
			return
		}
	}
	csvWriter.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=history_"+name+".csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buffer.Bytes()); err != nil {
		d.log.Error("Failed writing CSV response: ", err)
	}
}

func (d *Dashboard) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		d.log.Error("JSON encoding failed: ", err)
	}
}

func (d *Dashboard) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownMetric), errors.Is(err, core.ErrBackupNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrMissingField), errors.Is(err, core.ErrInvalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		d.log.WithError(err).Error("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
