package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestCreateChargeMasterHandler(t *testing.T) {
	svc := newTestService()
	h := NewHandler(svc)

	e := echo.New()
	body := `{"name":"OPD consultation","code":"opd_new","chargeType":"OPD","amount":500}`
	req := httptest.NewRequest(http.MethodPost, "/api/charge-masters", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CreateChargeMaster(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var cm ChargeMaster
	if err := json.Unmarshal(rec.Body.Bytes(), &cm); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cm.Code != "OPD_NEW" || cm.Currency != "INR" {
		t.Errorf("expected normalized master, got %+v", cm)
	}
}

func TestApplyPaymentHandler(t *testing.T) {
	svc := newTestService()
	h := NewHandler(svc)
	docID := uuid.New()
	mustCreateMaster(t, svc, "OPD_NEW", "OPD", 500, &docID)
	ch, err := svc.CreatePatientCharge(context.Background(), uuid.New(), CaseOPD, "new", &docID)
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/charges/"+ch.ID.String()+"/payments",
		strings.NewReader(`{"amount":500}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(ch.ID.String())

	if err := h.ApplyPayment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Charge
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.PaymentStatus != StatusPaid {
		t.Errorf("expected paid, got %s", got.PaymentStatus)
	}
}
