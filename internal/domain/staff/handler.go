package staff

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/domain/identity"
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
	// Doctor directory is readable by staff who book appointments.
	readGroup := api.Group("", auth.RequireRole(identity.RoleDoctor, identity.RoleRecipient))
	readGroup.GET("/doctors", h.ListDoctors)
	readGroup.GET("/doctors/:id", h.GetDoctor)

	// Master data is readable by the same staff; only admins change it.
	readGroup.GET("/specializations", h.ListSpecializations)
	readGroup.GET("/specializations/:id", h.GetSpecialization)
	readGroup.GET("/degrees", h.ListDegrees)
	readGroup.GET("/degrees/:id", h.GetDegree)
	readGroup.GET("/departments", h.ListDepartments)
	readGroup.GET("/departments/:id", h.GetDepartment)

	admin := api.Group("", auth.RequireRole(identity.RoleAdmin))
	admin.POST("/doctors", h.CreateDoctor)
	admin.PUT("/doctors/:id", h.UpdateDoctor)
	admin.DELETE("/doctors/:id", h.DeleteDoctor)

	admin.GET("/lab-technicians", h.ListLabTechnicians)
	admin.GET("/lab-technicians/:id", h.GetLabTechnician)
	admin.POST("/lab-technicians", h.CreateLabTechnician)
	admin.PUT("/lab-technicians/:id", h.UpdateLabTechnician)
	admin.DELETE("/lab-technicians/:id", h.DeleteLabTechnician)

	admin.GET("/recipients", h.ListRecipients)
	admin.GET("/recipients/:id", h.GetRecipient)
	admin.POST("/recipients", h.CreateRecipient)
	admin.PUT("/recipients/:id", h.UpdateRecipient)
	admin.DELETE("/recipients/:id", h.DeleteRecipient)

	admin.POST("/specializations", h.CreateSpecialization)
	admin.PUT("/specializations/:id", h.UpdateSpecialization)
	admin.DELETE("/specializations/:id", h.DeleteSpecialization)

	admin.POST("/degrees", h.CreateDegree)
	admin.PUT("/degrees/:id", h.UpdateDegree)
	admin.DELETE("/degrees/:id", h.DeleteDegree)

	admin.POST("/departments", h.CreateDepartment)
	admin.PUT("/departments/:id", h.UpdateDepartment)
	admin.DELETE("/departments/:id", h.DeleteDepartment)
}

var doctorSortColumns = map[string]string{
	"specialization": "specialization",
	"department":     "department",
	"createdAt":      "created_at",
}

var labTechSortColumns = map[string]string{
	"department": "department",
	"createdAt":  "created_at",
}

var recipientSortColumns = map[string]string{
	"desk":      "desk",
	"createdAt": "created_at",
}

var masterSortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

// -- Doctor Handlers --

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &d); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Search,
		pg.OrderClause(doctorSortColumns, "created_at"), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDoctor(c.Request().Context(), &d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDoctor(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- LabTechnician Handlers --

func (h *Handler) CreateLabTechnician(c echo.Context) error {
	var lt LabTechnician
	if err := c.Bind(&lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateLabTechnician(c.Request().Context(), &lt); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lt)
}

func (h *Handler) GetLabTechnician(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	lt, err := h.svc.GetLabTechnician(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *Handler) ListLabTechnicians(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListLabTechnicians(c.Request().Context(), pg.Search,
		pg.OrderClause(labTechSortColumns, "created_at"), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateLabTechnician(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var lt LabTechnician
	if err := c.Bind(&lt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lt.ID = id
	if err := h.svc.UpdateLabTechnician(c.Request().Context(), &lt); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lt)
}

func (h *Handler) DeleteLabTechnician(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteLabTechnician(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Recipient Handlers --

func (h *Handler) CreateRecipient(c echo.Context) error {
	var rec Recipient
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateRecipient(c.Request().Context(), &rec); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetRecipient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.GetRecipient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListRecipients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRecipients(c.Request().Context(), pg.Search,
		pg.OrderClause(recipientSortColumns, "created_at"), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateRecipient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var rec Recipient
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec.ID = id
	if err := h.svc.UpdateRecipient(c.Request().Context(), &rec); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteRecipient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteRecipient(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Specialization Handlers --

func (h *Handler) CreateSpecialization(c echo.Context) error {
	var sp Specialization
	if err := c.Bind(&sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateSpecialization(c.Request().Context(), &sp); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sp)
}

func (h *Handler) GetSpecialization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sp, err := h.svc.GetSpecialization(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) ListSpecializations(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSpecializations(c.Request().Context(), pg.Search,
		pg.OrderClause(masterSortColumns, "name"), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateSpecialization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var sp Specialization
	if err := c.Bind(&sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sp.ID = id
	if err := h.svc.UpdateSpecialization(c.Request().Context(), &sp); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) DeleteSpecialization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteSpecialization(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Degree Handlers --

func (h *Handler) CreateDegree(c echo.Context) error {
	var dg Degree
	if err := c.Bind(&dg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDegree(c.Request().Context(), &dg); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dg)
}

func (h *Handler) GetDegree(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	dg, err := h.svc.GetDegree(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dg)
}

func (h *Handler) ListDegrees(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDegrees(c.Request().Context(), pg.Search,
		pg.OrderClause(masterSortColumns, "name"), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateDegree(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var dg Degree
	if err := c.Bind(&dg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	dg.ID = id
	if err := h.svc.UpdateDegree(c.Request().Context(), &dg); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dg)
}

func (h *Handler) DeleteDegree(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDegree(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Department Handlers --

func (h *Handler) CreateDepartment(c echo.Context) error {
	var dep Department
	if err := c.Bind(&dep); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDepartment(c.Request().Context(), &dep); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dep)
}

func (h *Handler) GetDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	dep, err := h.svc.GetDepartment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dep)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDepartments(c.Request().Context(), pg.Search,
		pg.OrderClause(masterSortColumns, "name"), pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var dep Department
	if err := c.Bind(&dep); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	dep.ID = id
	if err := h.svc.UpdateDepartment(c.Request().Context(), &dep); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dep)
}

func (h *Handler) DeleteDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDepartment(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
