// Package server exposes projections over HTTP: configurations are uploaded
// as YAML or posted as JSON and the projected tables are returned as JSON and
// CSV.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/sir-forecast/internal/config"
	"github.com/iwvelando/sir-forecast/internal/metrics"
	"github.com/iwvelando/sir-forecast/internal/projection"
	"github.com/iwvelando/sir-forecast/pkg/constants"
	"github.com/iwvelando/sir-forecast/pkg/output"
	"github.com/iwvelando/sir-forecast/pkg/sir"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	metrics       *metrics.Manager
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the projection API and
// the metrics endpoint. A nil metrics manager gets a private one.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, m *metrics.Manager) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewManager()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, metrics: m, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, m.Middleware(pattern, fn))
	}

	// Projection API endpoint (file upload)
	route("/api/projection", h.handleProjection)

	// Projection API endpoint for editor-driven updates
	route("/api/editor/projection", h.handleProjectionEditor)

	// Config serialization endpoint for editor downloads
	route("/api/editor/export", h.handleConfigExport)

	route("/api/version", h.handleVersion)

	mux.Handle("/metrics", m.Handler())

	return mux
}

type projectionResponse struct {
	Scenarios  []scenarioResult       `json:"scenarios"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type scenarioResult struct {
	Name      string          `json:"name"`
	RunID     string          `json:"runId"`
	FirstYear int             `json:"firstYear"`
	FinalYear int             `json:"finalYear"`
	Rates     rateSummary     `json:"rates"`
	Peak      *peakSummary    `json:"peak,omitempty"`
	Rows      []projectionRow `json:"rows"`
}

type rateSummary struct {
	Enter        float64  `json:"enter"`
	Leave        float64  `json:"leave"`
	Transmit     float64  `json:"transmit"`
	Recover      float64  `json:"recover"`
	Reproduction *float64 `json:"reproduction,omitempty"` // unset when infinite
}

type peakSummary struct {
	Year     int     `json:"year"`
	Infected float64 `json:"infected"`
}

type projectionRow struct {
	Year          int     `json:"year"`
	Susceptible   float64 `json:"susceptible"`
	Infected      float64 `json:"infected"`
	Recovered     float64 `json:"recovered"`
	Entries       float64 `json:"entries"`
	Exits         float64 `json:"exits"`
	Transmissions float64 `json:"transmissions"`
	Recoveries    float64 `json:"recoveries"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleProjection"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err))
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err))
		return
	}

	h.runProjection(w, configBytes, configMap, start, "server.handleProjection")
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleProjectionEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleProjectionEditor")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", "server.handleProjectionEditor")
			return
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleProjectionEditor")
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), "server.handleProjectionEditor")
		return
	}

	h.runProjection(w, configBytes, configMap, start, "server.handleProjectionEditor")
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// configKeyOrder lists the top-level keys exported first, in this order; any
// other keys follow alphabetically.
var configKeyOrder = []string{"logging", "output", "integration", "common", "scenarios"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runProjection(w http.ResponseWriter, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	results, err := projection.GetProjections(h.logger, *cfg)
	elapsed := time.Since(start)
	h.metrics.ObserveProjection(len(results), countYears(results), elapsed, err)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to compute projection: %v", err), op)
		return
	}

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := projectionResponse{
		Scenarios:  buildScenarios(results),
		CSV:        output.CsvString(results),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Int("years", countYears(results)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// statusFor maps projection errors onto HTTP status codes: bad inputs are the
// client's fault, a numeric failure means the inputs describe an impossible
// trajectory.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sir.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, sir.ErrNumericFailure):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleProjection")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("projection request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func countYears(results []projection.Projection) int {
	years := 0
	for _, result := range results {
		years += len(result.Rows)
	}
	return years
}

func buildScenarios(results []projection.Projection) []scenarioResult {
	scenarios := make([]scenarioResult, 0, len(results))
	for _, result := range results {
		scenario := scenarioResult{
			Name:      result.Name,
			RunID:     result.RunID,
			FirstYear: result.FirstYear,
			FinalYear: result.FinalYear,
			Rates: rateSummary{
				Enter:    result.Rates.Enter,
				Leave:    result.Rates.Leave,
				Transmit: result.Rates.Transmit,
				Recover:  result.Rates.Recover,
			},
			Rows: make([]projectionRow, 0, len(result.Rows)),
		}
		if r0 := result.Rates.ReproductionNumber(); !math.IsInf(r0, 0) {
			scenario.Rates.Reproduction = &r0
		}
		if peak, ok := result.Peak(); ok {
			scenario.Peak = &peakSummary{Year: peak.Year, Infected: peak.State.Infected}
		}
		for _, row := range result.Rows {
			scenario.Rows = append(scenario.Rows, projectionRow{
				Year:          row.Year,
				Susceptible:   row.State.Susceptible,
				Infected:      row.State.Infected,
				Recovered:     row.State.Recovered,
				Entries:       row.Events.Entries,
				Exits:         row.Events.Exits,
				Transmissions: row.Events.Transmissions,
				Recoveries:    row.Events.Recoveries,
			})
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios
}
