package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/contracts"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/constvars"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"
)

const upstreamName = "case-workflow"

type settlementOutcomePayload struct {
	CaseID string `json:"case_id"`
	Status string `json:"status"`
}

type workflowHTTPNotifier struct {
	BaseUrl string
	Client  *http.Client
}

func NewWorkflowHTTPNotifier(baseUrl string) contracts.WorkflowNotifier {
	return &workflowHTTPNotifier{
		BaseUrl: baseUrl,
		Client:  &http.Client{},
	}
}

func (c *workflowHTTPNotifier) NotifySettlementOutcome(ctx context.Context, caseID string, status models.SettlementStatus) error {
	payload, err := json.Marshal(settlementOutcomePayload{
		CaseID: caseID,
		Status: string(status),
	})
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	url := fmt.Sprintf("%s/cases/%s/settlement-outcome", c.BaseUrl, caseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return exceptions.ErrUpstreamRequest(err, upstreamName)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.Client.Do(req)
	if err != nil {
		return exceptions.ErrUpstreamRequest(err, upstreamName)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusAccepted {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return exceptions.ErrUpstreamRequest(readErr, upstreamName)
		}
		statusErr := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
		return exceptions.ErrUpstreamRequest(statusErr, upstreamName)
	}
	return nil
}
