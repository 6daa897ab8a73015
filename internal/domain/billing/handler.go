package billing

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
	admin := api.Group("", auth.RequireRole("admin"))

	admin.POST("/charge-masters", h.CreateChargeMaster)
	admin.GET("/charge-masters", h.ListChargeMasters)
	admin.GET("/charge-masters/:id", h.GetChargeMaster)
	admin.PUT("/charge-masters/:id", h.UpdateChargeMaster)
	admin.DELETE("/charge-masters/:id", h.DeleteChargeMaster)

	admin.GET("/charges", h.ListCharges)
	admin.GET("/charges/:id", h.GetCharge)
	admin.POST("/charges/:id/payments", h.ApplyPayment)

	admin.POST("/services", h.CreateServiceItem)
	admin.GET("/services", h.ListServiceItems)
	admin.GET("/services/:id", h.GetServiceItem)
	admin.PUT("/services/:id", h.UpdateServiceItem)
	admin.DELETE("/services/:id", h.DeleteServiceItem)
}

var chargeMasterSortColumns = map[string]string{
	"name":       "name",
	"code":       "code",
	"chargeType": "charge_type",
	"amount":     "amount",
	"createdAt":  "created_at",
}

var chargeSortColumns = map[string]string{
	"amount":        "amount",
	"paymentStatus": "payment_status",
	"createdAt":     "created_at",
}

var serviceSortColumns = map[string]string{
	"serviceName": "service_name",
	"price":       "price",
	"department":  "department",
	"createdAt":   "created_at",
}

// -- ChargeMaster Handlers --

func (h *Handler) CreateChargeMaster(c echo.Context) error {
	var cm ChargeMaster
	if err := c.Bind(&cm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateChargeMaster(c.Request().Context(), &cm); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cm)
}

func (h *Handler) GetChargeMaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cm, err := h.svc.GetChargeMaster(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cm)
}

func (h *Handler) ListChargeMasters(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListChargeMasters(c.Request().Context(), pg.Search,
		c.QueryParam("chargeType"), pg.OrderClause(chargeMasterSortColumns, "created_at"),
		pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateChargeMaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cm ChargeMaster
	if err := c.Bind(&cm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cm.ID = id
	if err := h.svc.UpdateChargeMaster(c.Request().Context(), &cm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cm)
}

func (h *Handler) DeleteChargeMaster(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteChargeMaster(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Charge Handlers --

func (h *Handler) GetCharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ch, err := h.svc.GetCharge(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *Handler) ListCharges(c echo.Context) error {
	pg := pagination.FromContext(c)
	var patientID uuid.UUID
	if p := c.QueryParam("patientId"); p != "" {
		patientID, _ = uuid.Parse(p)
	}
	items, total, err := h.svc.ListCharges(c.Request().Context(), patientID,
		c.QueryParam("paymentStatus"), pg.OrderClause(chargeSortColumns, "created_at"),
		pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) ApplyPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ch, err := h.svc.ApplyPayment(c.Request().Context(), id, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

// -- ServiceItem Handlers --

func (h *Handler) CreateServiceItem(c echo.Context) error {
	var si ServiceItem
	if err := c.Bind(&si); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateServiceItem(c.Request().Context(), &si); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, si)
}

func (h *Handler) GetServiceItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	si, err := h.svc.GetServiceItem(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, si)
}

func (h *Handler) ListServiceItems(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListServiceItems(c.Request().Context(), pg.Search,
		c.QueryParam("department"), pg.OrderClause(serviceSortColumns, "created_at"),
		pg.Limit, pg.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateServiceItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var si ServiceItem
	if err := c.Bind(&si); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	si.ID = id
	if err := h.svc.UpdateServiceItem(c.Request().Context(), &si); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, si)
}

func (h *Handler) DeleteServiceItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteServiceItem(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
