package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"trajectory-service/internal/apierrors"
	"trajectory-service/internal/formats"
	"trajectory-service/internal/metrics"
	"trajectory-service/internal/models"
	"trajectory-service/internal/params"
	"trajectory-service/internal/repository"
	"trajectory-service/internal/services"
)

// PredictionHandler defines handlers for the trajectory prediction API.
type PredictionHandler struct {
	Requests     *services.RequestService
	Prediction   *services.PredictionService
	Repo         repository.PredictionRepository
	Exports      *services.ExportService
	Metrics      *metrics.Metrics
	HistoryLimit int
}

// NewPredictionHandler creates a new PredictionHandler. repo and exports may
// be nil when the history database or export archive is not configured.
func NewPredictionHandler(requests *services.RequestService, prediction *services.PredictionService,
	repo repository.PredictionRepository, exports *services.ExportService,
	m *metrics.Metrics, historyLimit int) *PredictionHandler {
	return &PredictionHandler{
		Requests:     requests,
		Prediction:   prediction,
		Repo:         repo,
		Exports:      exports,
		Metrics:      m,
		HistoryLimit: historyLimit,
	}
}

// Predict handles GET /api/v1/ to run a trajectory prediction.
// @Summary Run a trajectory prediction
// @Description Validates the launch parameters, runs the selected flight profile, and returns the predicted trajectory
// @Tags prediction
// @Accept json
// @Produce json
// @Param launch_latitude query number true "Launch latitude in degrees [-90,90]"
// @Param launch_longitude query number true "Launch longitude in degrees [0,360)"
// @Param launch_datetime query string true "Launch time, RFC3339"
// @Param launch_altitude query number false "Launch altitude in meters (looked up when omitted)"
// @Param profile query string false "Flight profile: standard_profile, float_profile, or reverse_profile"
// @Param format query string false "Output format: json, csv, or kml"
// @Param dataset query string false "Dataset time (RFC3339) or 'latest'"
// @Success 200 {object} models.PredictionResponse "Predicted trajectory"
// @Failure 400 {object} models.ErrorResponse "Malformed or incomplete input"
// @Failure 404 {object} models.ErrorResponse "No usable dataset"
// @Failure 500 {object} models.ErrorResponse "Prediction or internal failure"
// @Router / [get]
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	timer := metrics.StartTimer()
	requestID := uuid.New()
	log.Printf("Prediction request: ID=%s, Path=%s, IP=%s", requestID, c.Path(), c.IP())

	req, err := h.Requests.Parse(params.Values(c.Queries()))
	if err != nil {
		return h.errorResponse(c, timer, "invalid", "invalid", err)
	}

	warnings := &models.WarningCounts{}
	resp, err := h.Prediction.Run(req, warnings)
	if err != nil {
		apiErr := apierrors.From(err)
		if apiErr.Kind == apierrors.KindNoMatchingDataset || apiErr.Kind == apierrors.KindInvalidDataset {
			h.Metrics.IncDatasetFailure()
		}
		return h.errorResponse(c, timer, req.Profile, req.Format, err)
	}

	timer.Finish()
	resp.Metadata = timer.Metadata()
	h.Metrics.ObservePrediction(req.Profile, req.Format, "success", timer.LatencyMs())
	log.Printf("Prediction complete: ID=%s, Profile=%s, Stages=%d, Latency=%.2fms",
		requestID, req.Profile, len(resp.Prediction), timer.LatencyMs())

	h.recordHistory(requestID, req, resp)

	switch req.Format {
	case models.FormatCSV:
		data, filename, err := formats.CSV(formats.FixLongitudes(resp))
		if err != nil {
			return h.errorResponse(c, timer, req.Profile, req.Format, err)
		}
		h.archiveExport(requestID, filename, formats.ContentTypeCSV, data, req.Format)
		return h.sendDownload(c, data, filename, formats.ContentTypeCSV)
	case models.FormatKML:
		data, filename, err := formats.KML(formats.FixLongitudes(resp))
		if err != nil {
			return h.errorResponse(c, timer, req.Profile, req.Format, err)
		}
		h.archiveExport(requestID, filename, formats.ContentTypeKML, data, req.Format)
		return h.sendDownload(c, data, filename, formats.ContentTypeKML)
	default:
		return c.JSON(resp)
	}
}

// DatasetCheck handles GET /api/datasetcheck to report the newest dataset.
// @Summary Check dataset availability
// @Description Reports the most recent resolvable wind dataset
// @Tags prediction
// @Accept json
// @Produce json
// @Success 200 {object} models.DatasetCheckResponse "Most recent dataset"
// @Failure 404 {object} models.ErrorResponse "No dataset available"
// @Router /datasetcheck [get]
func (h *PredictionHandler) DatasetCheck(c *fiber.Ctx) error {
	timer := metrics.StartTimer()
	log.Printf("Dataset check request: Path=%s, IP=%s", c.Path(), c.IP())

	resp, err := h.Prediction.DatasetCheck()
	if err != nil {
		h.Metrics.IncDatasetFailure()
		return h.errorResponse(c, timer, "datasetcheck", models.FormatJSON, err)
	}
	timer.Finish()
	resp.Metadata = timer.Metadata()
	return c.JSON(resp)
}

// ListPredictions handles GET /api/v1/predictions to list recent history.
// @Summary List recent predictions
// @Description Returns summaries of recently completed predictions (requires a configured database)
// @Tags prediction
// @Accept json
// @Produce json
// @Success 200 {array} models.PredictionRecord "Recent prediction summaries"
// @Failure 501 {object} models.ErrorResponse "History persistence not configured"
// @Router /predictions [get]
func (h *PredictionHandler) ListPredictions(c *fiber.Ctx) error {
	timer := metrics.StartTimer()
	if h.Repo == nil {
		return h.errorResponse(c, timer, "history", models.FormatJSON,
			apierrors.NotImplemented("Prediction history requires a configured database."))
	}
	records, err := h.Repo.ListRecent(h.HistoryLimit)
	if err != nil {
		log.Printf("Error listing prediction history: %v", err)
		return h.errorResponse(c, timer, "history", models.FormatJSON, err)
	}
	log.Printf("Successfully listed %d prediction records", len(records))
	return c.JSON(records)
}

func (h *PredictionHandler) sendDownload(c *fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Status(fiber.StatusOK).Send(data)
}

func (h *PredictionHandler) recordHistory(id uuid.UUID, req *models.PredictionRequest,
	resp *models.PredictionResponse) {
	if h.Repo == nil {
		return
	}
	record := h.Prediction.BuildRecord(id, req, resp)
	if err := h.Repo.CreateRecord(record); err != nil {
		// History is diagnostics, not part of the response contract.
		log.Printf("Failed to save prediction record: ID=%s, Error=%v", id, err)
	}
}

func (h *PredictionHandler) archiveExport(id uuid.UUID, filename, contentType string,
	data []byte, format string) {
	if h.Exports == nil {
		return
	}
	if err := h.Exports.Archive(id, filename, contentType, data); err != nil {
		log.Printf("Failed to archive export: ID=%s, Error=%v", id, err)
		h.Metrics.ObserveExportArchive(format, "error")
		return
	}
	h.Metrics.ObserveExportArchive(format, "success")
}

// errorResponse maps a pipeline failure to its status code and structured
// body. Failure responses carry the same timing metadata as successes.
func (h *PredictionHandler) errorResponse(c *fiber.Ctx, timer *metrics.RequestTimer,
	profile, format string, err error) error {
	apiErr := apierrors.From(err)
	timer.Finish()
	h.Metrics.ObservePrediction(profile, format, string(apiErr.Kind), timer.LatencyMs())
	log.Printf("Request failed: Type=%s, Description=%s", apiErr.WireType(), apiErr.Description)

	return c.Status(apiErr.StatusCode()).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Type:        apiErr.WireType(),
			Description: apiErr.Description,
		},
		Metadata: timer.Metadata(),
	})
}
