package diagnostics

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("doctor", "lab_technician"))
	readGroup.GET("/lab-tests", h.ListLabTests)
	readGroup.GET("/lab-tests/:id", h.GetLabTest)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/lab-tests", h.CreateLabTest)
	admin.PUT("/lab-tests/:id", h.UpdateLabTest)
	admin.DELETE("/lab-tests/:id", h.DeleteLabTest)
}

var labTestSortColumns = map[string]string{
	"name":      "name",
	"code":      "code",
	"category":  "category",
	"createdAt": "created_at",
}

func (h *Handler) CreateLabTest(c echo.Context) error {
	var lt LabTest
	if err := c.Bind(&lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateLabTest(c.Request().Context(), &lt); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lt)
}

func (h *Handler) GetLabTest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	lt, err := h.svc.GetLabTest(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *Handler) ListLabTests(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListLabTests(c.Request().Context(), pg.Search,
		c.QueryParam("category"), pg.OrderClause(labTestSortColumns, "created_at"),
		pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateLabTest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var lt LabTest
	if err := c.Bind(&lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lt.ID = id
	if err := h.svc.UpdateLabTest(c.Request().Context(), &lt); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *Handler) DeleteLabTest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteLabTest(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
