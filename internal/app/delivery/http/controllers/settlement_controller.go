package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/services/core/settlement"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/dto/requests"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/dto/responses"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type SettlementController struct {
	Log     *zap.Logger
	Usecase settlement.Usecase
}

var (
	settlementControllerInstance *SettlementController
	onceSettlementController     sync.Once
)

func NewSettlementController(logger *zap.Logger, uc settlement.Usecase) *SettlementController {
	onceSettlementController.Do(func() {
		settlementControllerInstance = &SettlementController{Log: logger, Usecase: uc}
	})
	return settlementControllerInstance
}

// TriggerSettlement processes POST /cases/{caseID}/settlements.
func (ctrl *SettlementController) TriggerSettlement(w http.ResponseWriter, r *http.Request) {
	in, err := ctrl.buildSettleInput(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	out, err := ctrl.Usecase.Settle(r.Context(), in)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, "settlement attempt started", out)
}

// RequestResettle processes POST /cases/{caseID}/settlements/resettle.
func (ctrl *SettlementController) RequestResettle(w http.ResponseWriter, r *http.Request) {
	in, err := ctrl.buildSettleInput(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	out, err := ctrl.Usecase.RequestResettle(r.Context(), in)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, "resettlement attempt started", out)
}

// GetSettlement processes GET /cases/{caseID}/settlements.
func (ctrl *SettlementController) GetSettlement(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(errors.New("caseID path parameter is required")))
		return
	}

	state, err := ctrl.Usecase.GetSettlementState(r.Context(), caseID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	pendingSince := state.PendingSince
	attempt := responses.SettlementAttempt{
		CaseID:       state.CaseID,
		AttemptID:    state.AttemptID,
		Status:       string(state.Status),
		Outstanding:  state.Outstanding,
		PendingSince: &pendingSince,
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, "settlement state", attempt)
}

// HandleReceiptWebhook processes POST /receipts, the synchronous fallback for
// ledgers that confirm over HTTP instead of the receipt queue.
func (ctrl *SettlementController) HandleReceiptWebhook(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get(constvars.HeaderContentType), constvars.MIMEApplicationJSON) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.BuildNewCustomError(nil, constvars.StatusUnsupportedMediaType, "Content-Type must be application/json", "RECEIPT_UNSUPPORTED_MEDIA_TYPE"))
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	defer r.Body.Close()

	var dto requests.Receipt
	if err := json.Unmarshal(raw, &dto); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	receipt := models.Receipt{
		TransmissionID: dto.TransmissionID,
		Outcome:        models.ReceiptOutcome(dto.Outcome),
		Code:           dto.Code,
		Message:        dto.Message,
	}
	if err := ctrl.Usecase.OnReceipt(r.Context(), receipt); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, "receipt recorded", nil)
}

func (ctrl *SettlementController) buildSettleInput(r *http.Request) (*settlement.SettleInput, error) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		return nil, exceptions.ErrInputValidation(errors.New("caseID path parameter is required"))
	}

	in := &settlement.SettleInput{CaseID: caseID}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	defer r.Body.Close()

	if len(raw) > 0 {
		var dto requests.SettleCase
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, exceptions.ErrCannotParseJSON(err)
		}
		in.Cessation = dto.Cessation
	}
	return in, nil
}
