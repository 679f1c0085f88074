package patient

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qward/qward/internal/platform/auth"
	"github.com/qward/qward/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – any ward role
	read := api.Group("", auth.RequireRole("nurse", "doctor", "admin"))
	read.GET("/patients", h.ListPatients)
	read.GET("/patients/:id", h.GetPatient)
	read.GET("/dashboard/kpis", h.GetKPIs)
	read.GET("/dashboard/todo", h.GetDailyTodo)
	read.GET("/export", h.ExportPatients)

	// Nurse endpoints
	nurse := api.Group("", auth.RequireRole("nurse"))
	nurse.POST("/patients", h.AdmitPatient)
	nurse.POST("/patients/:id/temperature", h.RecordTemperature)

	// Doctor endpoints
	doctor := api.Group("", auth.RequireRole("doctor"))
	doctor.POST("/patients/:id/visits", h.RecordVisit)

	// Admin endpoints
	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/patients/:id/discharge", h.DischargePatient)
	admin.POST("/patients/:id/deceased", h.MarkDeceased)
	admin.POST("/import", h.ImportPatients)
}

// View is a patient plus the derived fields the dashboard renders.
// Status and streak are recomputed on every request, never stored.
type View struct {
	*Patient
	Status        Status `json:"status"`
	FeverFreeDays int    `json:"fever_free_days"`
}

func (h *Handler) view(p *Patient, today string) View {
	return View{
		Patient:       p,
		Status:        ComputeStatus(p, today),
		FeverFreeDays: FeverFreeDays(p),
	}
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	today := h.svc.Today()

	patients, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if q := strings.ToLower(c.QueryParam("q")); q != "" {
		filtered := patients[:0]
		for _, p := range patients {
			if strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.ID), q) ||
				strings.Contains(strconv.Itoa(p.Bed), q) {
				filtered = append(filtered, p)
			}
		}
		patients = filtered
	}

	total := len(patients)
	start, end := pg.Bounds(total)
	views := make([]View, 0, end-start)
	for _, p := range patients[start:end] {
		views = append(views, h.view(p, today))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.view(p, h.svc.Today()))
}

func (h *Handler) AdmitPatient(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
		Bed  int    `json:"bed"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Admit(c.Request().Context(), body.Name, body.Age, body.Bed)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, h.view(p, h.svc.Today()))
}

func (h *Handler) RecordTemperature(c echo.Context) error {
	var body struct {
		Temp float64 `json:"temp"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.RecordTemperature(c.Request().Context(), c.Param("id"), body.Temp, h.svc.Today())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, h.view(p, h.svc.Today()))
}

func (h *Handler) RecordVisit(c echo.Context) error {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.RecordVisit(c.Request().Context(), c.Param("id"), body.Notes, h.svc.Today())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, h.view(p, h.svc.Today()))
}

func (h *Handler) DischargePatient(c echo.Context) error {
	p, err := h.svc.Discharge(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.view(p, h.svc.Today()))
}

func (h *Handler) MarkDeceased(c echo.Context) error {
	p, err := h.svc.MarkDeceased(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.view(p, h.svc.Today()))
}

func (h *Handler) GetKPIs(c echo.Context) error {
	kpis, err := h.svc.KPIs(c.Request().Context(), h.svc.Today())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, kpis)
}

func (h *Handler) GetDailyTodo(c echo.Context) error {
	todo, err := h.svc.DailyTodo(c.Request().Context(), h.svc.Today())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, todo)
}

func (h *Handler) ExportPatients(c echo.Context) error {
	raw, err := h.svc.Export(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="quarantine_data.json"`)
	return c.JSONBlob(http.StatusOK, raw)
}

func (h *Handler) ImportPatients(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if err := h.svc.Import(c.Request().Context(), raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// httpError maps the engine's error taxonomy onto HTTP statuses so the
// caller can render a specific message.
func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateForDate), errors.Is(err, ErrNotEligible):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidTemperature), errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
