package afdian

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"afdian-bridge/internal/models"
	"afdian-bridge/pkg/logging"
)

const (
	defaultBaseURL = "https://afdian.com/api/open"
	paymentBaseURL = "https://afdian.com/order/create"

	// Fixed sentinel parameter for the /ping self-test
	pingSentinel = 114514
)

// Client talks to the Afdian open API using the platform's shared-secret MD5
// signature scheme. One network call per operation, 10 second timeout, no
// automatic retry.
type Client struct {
	userID     string
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for the given creator account.
func NewClient(userID, token string) *Client {
	return &Client{
		userID:  userID,
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // 10 second timeout
		},
	}
}

// Close releases pooled connections. Call on shutdown.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// sign computes the request signature:
// md5(token + "params" + paramsJSON + "ts" + ts + "user_id" + userID).
// The concatenation is a wire-compatibility requirement of the platform.
func (c *Client) sign(paramsJSON string, ts int64) string {
	raw := c.token + "params" + paramsJSON + "ts" + strconv.FormatInt(ts, 10) + "user_id" + c.userID
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// post signs and executes one request. Transport failures, non-2xx statuses
// and undecodable bodies are downgraded to an ec -1 envelope; they never
// escape as errors.
func (c *Client) post(ctx context.Context, endpoint string, params interface{}) *Response {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return &Response{EC: -1, EM: fmt.Sprintf("failed to encode params: %v", err)}
	}

	ts := time.Now().Unix()
	body := requestBody{
		UserID: c.userID,
		Params: string(paramsJSON),
		TS:     ts,
		Sign:   c.sign(string(paramsJSON), ts),
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return &Response{EC: -1, EM: fmt.Sprintf("failed to encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return &Response{EC: -1, EM: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Errorf("Afdian request failed - endpoint: %s, error: %v", endpoint, err)
		return &Response{EC: -1, EM: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Errorf("Afdian request failed - endpoint: %s, status: %d", endpoint, resp.StatusCode)
		return &Response{EC: -1, EM: fmt.Sprintf("unexpected status code: %d", resp.StatusCode)}
	}

	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		logging.Errorf("Afdian response decode failed - endpoint: %s, error: %v", endpoint, err)
		return &Response{EC: -1, EM: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return &r
}

// Ping sends the fixed sentinel parameter to verify connectivity and that the
// signature is accepted. Returns the raw envelope.
func (c *Client) Ping(ctx context.Context) *Response {
	return c.post(ctx, "/ping", pingParams{A: pingSentinel})
}

// QueryOrder looks up orders page by page. outTradeNo may be a single id, a
// comma-joined list, or empty for all orders. Returns the data.list entries,
// or an empty slice when the response carries none.
func (c *Client) QueryOrder(ctx context.Context, page int, outTradeNo string, perPage int) ([]models.OrderPayload, error) {
	resp := c.post(ctx, "/query-order", queryOrderParams{
		Page:       page,
		PerPage:    perPage,
		OutTradeNo: outTradeNo,
	})
	if resp.EC != 0 {
		return nil, &APIError{Code: resp.EC, Message: resp.EM}
	}

	if len(resp.Data) == 0 {
		return []models.OrderPayload{}, nil
	}
	var data orderListData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, &APIError{Code: -1, Message: fmt.Sprintf("failed to decode order list: %v", err)}
	}
	if data.List == nil {
		return []models.OrderPayload{}, nil
	}
	logging.Infof("Afdian query-order %q returned %d orders", outTradeNo, len(data.List))
	return data.List, nil
}

// QuerySponsor looks up backers page by page. sponsorUserIDs may be a
// comma-joined list or empty for all. Returns the data object, empty when
// the response carries none.
func (c *Client) QuerySponsor(ctx context.Context, page int, sponsorUserIDs string, perPage int) (*SponsorData, error) {
	resp := c.post(ctx, "/query-sponsor", querySponsorParams{
		Page:    page,
		UserID:  sponsorUserIDs,
		PerPage: perPage,
	})
	if resp.EC != 0 {
		return nil, &APIError{Code: resp.EC, Message: resp.EM}
	}

	var data SponsorData
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return nil, &APIError{Code: -1, Message: fmt.Sprintf("failed to decode sponsor data: %v", err)}
		}
	}
	logging.Infof("Afdian query-sponsor %q returned %d sponsors", sponsorUserIDs, len(data.List))
	return &data, nil
}

// GeneratePaymentURL builds the manual-payment redirect link. Purely local,
// unsigned, cannot fail. The remark is carried back verbatim in the order
// notification and is what correlates payment to requester.
func (c *Client) GeneratePaymentURL(price float64, remark string) string {
	return fmt.Sprintf("%s?user_id=%s&remark=%s&custom_price=%.2f",
		paymentBaseURL, c.userID, url.QueryEscape(remark), price)
}
