package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/settlement"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsecase struct {
	settleIn   *settlement.SettleInput
	settleOut  *settlement.SettleOutput
	settleErr  error
	receipt    *models.Receipt
	receiptErr error
	state      *models.CaseSettlementState
	stateErr   error
}

func (s *stubUsecase) Settle(_ context.Context, in *settlement.SettleInput) (*settlement.SettleOutput, error) {
	s.settleIn = in
	return s.settleOut, s.settleErr
}

func (s *stubUsecase) RequestResettle(_ context.Context, in *settlement.SettleInput) (*settlement.SettleOutput, error) {
	s.settleIn = in
	return s.settleOut, s.settleErr
}

func (s *stubUsecase) OnReceipt(_ context.Context, receipt models.Receipt) error {
	s.receipt = &receipt
	return s.receiptErr
}

func (s *stubUsecase) GetSettlementState(_ context.Context, _ string) (*models.CaseSettlementState, error) {
	return s.state, s.stateErr
}

func newTestRouter(uc settlement.Usecase) *chi.Mux {
	ctrl := &SettlementController{Log: zap.NewNop(), Usecase: uc}
	router := chi.NewRouter()
	router.Route("/cases/{caseID}/settlements", func(r chi.Router) {
		r.Post("/", ctrl.TriggerSettlement)
		r.Post("/resettle", ctrl.RequestResettle)
		r.Get("/", ctrl.GetSettlement)
	})
	router.Post("/receipts", ctrl.HandleReceiptWebhook)
	return router
}

func TestTriggerSettlementAccepted(t *testing.T) {
	stub := &stubUsecase{
		settleOut: &settlement.SettleOutput{
			CaseID:          "case-1",
			AttemptID:       "attempt-1",
			Status:          models.SettlementStatusPending,
			TransmissionIDs: []string{"t-1"},
		},
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/cases/case-1/settlements", strings.NewReader(`{"cessation":true}`))
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.NotNil(t, stub.settleIn)
	assert.Equal(t, "case-1", stub.settleIn.CaseID)
	assert.True(t, stub.settleIn.Cessation)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}

func TestTriggerSettlementEmptyBody(t *testing.T) {
	stub := &stubUsecase{
		settleOut: &settlement.SettleOutput{CaseID: "case-1", Status: models.SettlementStatusPositive},
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/cases/case-1/settlements", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.NotNil(t, stub.settleIn)
	assert.False(t, stub.settleIn.Cessation)
}

func TestTriggerSettlementConflict(t *testing.T) {
	stub := &stubUsecase{
		settleErr: exceptions.ErrSettlementConflict(nil),
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/cases/case-1/settlements", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestResettleAccepted(t *testing.T) {
	stub := &stubUsecase{
		settleOut: &settlement.SettleOutput{CaseID: "case-1", Status: models.SettlementStatusPending},
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/cases/case-1/settlements/resettle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.NotNil(t, stub.settleIn)
	assert.Equal(t, "case-1", stub.settleIn.CaseID)
}

func TestGetSettlementFound(t *testing.T) {
	stub := &stubUsecase{
		state: &models.CaseSettlementState{
			CaseID:       "case-1",
			AttemptID:    "attempt-1",
			Status:       models.SettlementStatusPending,
			Outstanding:  []string{"t-1"},
			PendingSince: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/cases/case-1/settlements", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "attempt-1")
	assert.Contains(t, rec.Body.String(), "pending")
}

func TestGetSettlementNotFound(t *testing.T) {
	stub := &stubUsecase{
		stateErr: exceptions.ErrSettlementStateNotFound(nil),
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/cases/case-1/settlements", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReceiptWebhookRecorded(t *testing.T) {
	stub := &stubUsecase{}
	router := newTestRouter(stub)

	payload := `{"transmission_id":"6ba7b811-9dad-41d1-80b4-00c04fd430c8","outcome":"positive","code":"OK"}`
	req := httptest.NewRequest(http.MethodPost, "/receipts", strings.NewReader(payload))
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.receipt)
	assert.Equal(t, models.ReceiptOutcomePositive, stub.receipt.Outcome)
	assert.Equal(t, "OK", stub.receipt.Code)
}

func TestReceiptWebhookRejectsUnknownOutcome(t *testing.T) {
	stub := &stubUsecase{}
	router := newTestRouter(stub)

	payload := `{"transmission_id":"6ba7b811-9dad-41d1-80b4-00c04fd430c8","outcome":"maybe"}`
	req := httptest.NewRequest(http.MethodPost, "/receipts", strings.NewReader(payload))
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, stub.receipt)
}

func TestReceiptWebhookRejectsWrongContentType(t *testing.T) {
	stub := &stubUsecase{}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/receipts", strings.NewReader("transmission_id=t-1"))
	req.Header.Set(constvars.HeaderContentType, "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
