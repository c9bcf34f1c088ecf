package timeline

import (
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

const upstreamName = "timeline-provider"

type timelineHTTPClient struct {
	BaseUrl string
	Client  *http.Client
}

func NewTimelineHTTPClient(baseUrl string) contracts.TimelineProvider {
	return &timelineHTTPClient{
		BaseUrl: baseUrl,
		Client:  &http.Client{},
	}
}

func (c *timelineHTTPClient) GetTargetTimeline(ctx context.Context, caseID string) (*models.Timeline, error) {
	url := fmt.Sprintf("%s/cases/%s/timeline", c.BaseUrl, caseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, exceptions.ErrUpstreamRequest(err, upstreamName)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, exceptions.ErrUpstreamRequest(err, upstreamName)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, exceptions.ErrUpstreamRequest(readErr, upstreamName)
		}
		statusErr := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
		return nil, exceptions.ErrUpstreamRequest(statusErr, upstreamName)
	}

	result := new(models.Timeline)
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, exceptions.ErrUpstreamRequest(err, upstreamName)
	}
	return result, nil
}
