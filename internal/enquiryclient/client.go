// internal/enquiryclient/client.go
package enquiryclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	commonhttp "valuation-leads/internal/common/http"
	"valuation-leads/internal/models"
	"valuation-leads/internal/valuation"
)

const (
	DefaultEndpoint = "http://localhost:8080/api/submit-enquiry"
	userAgent       = "valuation-leads-client/1.0"
)

var ErrSubmissionFailed = errors.New("ENQUIRY_SUBMISSION_FAILED")

// Client posts captured leads to the submission endpoint. It satisfies
// valuation.Submitter.
type Client struct {
	http     *commonhttp.Client
	endpoint string
}

func New(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:     commonhttp.NewClient(timeout, userAgent),
		endpoint: endpoint,
	}
}

// SubmitEnquiry succeeds only on a 2xx response. Any other status, or a
// transport failure, is reported as ErrSubmissionFailed.
func (c *Client) SubmitEnquiry(ctx context.Context, contact models.Contact, in valuation.Input, res valuation.Result) error {
	resp, err := c.http.PostJSON(ctx, c.endpoint, BuildEnquiry(contact, in, res))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body, &body)
		return fmt.Errorf("%w: status %d: %s", ErrSubmissionFailed, resp.StatusCode, body.Message)
	}
	return nil
}

// BuildEnquiry assembles the request body. Non-finite figures are sent as
// null, matching what a browser's JSON encoder does with NaN.
func BuildEnquiry(contact models.Contact, in valuation.Input, res valuation.Result) *models.Enquiry {
	industry := string(in.Industry)
	return &models.Enquiry{
		Contact: contact,
		CalculationData: &models.CalculationData{
			Revenue:      finiteOrNil(in.AnnualRevenue),
			ProfitMargin: finiteOrNil(in.ProfitMarginPercent),
			AssetValue:   finiteOrNil(in.AssetValue),
			Industry:     &industry,
		},
		Result: &models.ResultEcho{
			AssetBased:     finiteOrNil(res.AssetBased),
			MarketMultiple: finiteOrNil(res.MarketMultiple),
			DCF:            finiteOrNil(res.DCF),
			RecommendedRange: &models.RangeEcho{
				Min: finiteOrNil(res.RecommendedRange.Min),
				Max: finiteOrNil(res.RecommendedRange.Max),
			},
		},
	}
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
