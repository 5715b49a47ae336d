// internal/gateway/client.go
//
// Typed HTTP client for the external compliance/quote API. Every method
// takes a context, wraps non-2xx responses into APIError, and leaves retry
// policy to the caller.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 15 * time.Second

// Logger is the minimal logging surface the client needs.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Client talks to the external onboarding API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client for the given API base URL and partner key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Login sends the email OTP and returns the state token gating verification.
func (c *Client) Login(ctx context.Context, email string) (*LoginResult, error) {
	body := map[string]string{"apiKey": c.apiKey, "email": email}
	data, err := c.do(ctx, http.MethodPost, "auth/login", nil, "", body)
	if err != nil {
		return nil, fmt.Errorf("gateway: login: %w", err)
	}
	var result LoginResult
	if err := json.Unmarshal(unwrapData(data), &result); err != nil {
		return nil, fmt.Errorf("gateway: decode login response: %w", err)
	}
	if result.StateToken == "" {
		return nil, fmt.Errorf("gateway: login response missing state token")
	}
	return &result, nil
}

// VerifyOTP exchanges the emailed code for an access token. The token is
// normalized from any of the known response shapes; a 2xx body without one
// is treated as a failure.
func (c *Client) VerifyOTP(ctx context.Context, req VerifyRequest) (string, error) {
	body := map[string]string{
		"apiKey":     c.apiKey,
		"email":      req.Email,
		"otp":        req.OTP,
		"stateToken": req.StateToken,
	}
	data, err := c.do(ctx, http.MethodPost, "auth/verify", nil, "", body)
	if err != nil {
		return "", fmt.Errorf("gateway: verify otp: %w", err)
	}
	token, err := ExtractToken(data)
	if err != nil {
		return "", err
	}
	return token, nil
}

// RefreshToken trades the current access token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context, token string) (string, error) {
	data, err := c.do(ctx, http.MethodGet, "auth/refresh", nil, token, nil)
	if err != nil {
		return "", fmt.Errorf("gateway: refresh: %w", err)
	}
	fresh, err := ExtractToken(data)
	if err != nil {
		return "", err
	}
	return fresh, nil
}

// UserProfile fetches the authenticated user record. The shape varies by
// provider version, so it is returned as an opaque map.
func (c *Client) UserProfile(ctx context.Context, token string) (map[string]any, error) {
	query := url.Values{"apiKey": {c.apiKey}}
	data, err := c.do(ctx, http.MethodGet, "user/", query, token, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: user profile: %w", err)
	}
	var profile map[string]any
	if err := json.Unmarshal(unwrapData(data), &profile); err != nil {
		return nil, fmt.Errorf("gateway: decode user profile: %w", err)
	}
	return profile, nil
}

// PatchKYCUser syncs personal and address details to the provider.
func (c *Client) PatchKYCUser(ctx context.Context, token string, patch KYCUserPatch) error {
	query := url.Values{"apiKey": {c.apiKey}}
	if _, err := c.do(ctx, http.MethodPatch, "kyc/user", query, token, patch); err != nil {
		return fmt.Errorf("gateway: patch kyc user: %w", err)
	}
	return nil
}

// Requirements fetches the KYC forms required for the given quote.
func (c *Client) Requirements(ctx context.Context, token, quoteID string) (*Requirements, error) {
	return c.fetchRequirements(ctx, "kyc/requirement", token, quoteID)
}

// AdditionalRequirements fetches the follow-up forms, which carry the
// provider's hosted verification URL.
func (c *Client) AdditionalRequirements(ctx context.Context, token, quoteID string) (*Requirements, error) {
	return c.fetchRequirements(ctx, "kyc/additional-requirements", token, quoteID)
}

func (c *Client) fetchRequirements(ctx context.Context, path, token, quoteID string) (*Requirements, error) {
	query := url.Values{
		"apiKey":            {c.apiKey},
		"metadata[quoteId]": {quoteID},
	}
	data, err := c.do(ctx, http.MethodGet, path, query, token, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", path, err)
	}
	var reqs Requirements
	if err := json.Unmarshal(unwrapData(data), &reqs); err != nil {
		return nil, fmt.Errorf("gateway: decode %s: %w", path, err)
	}
	return &reqs, nil
}

// SubmitPurpose records the declared purposes of usage.
func (c *Client) SubmitPurpose(ctx context.Context, token string, purposes []string) error {
	body := map[string][]string{"purposeList": purposes}
	if _, err := c.do(ctx, http.MethodPost, "kyc/purpose-of-usage", nil, token, body); err != nil {
		return fmt.Errorf("gateway: submit purpose: %w", err)
	}
	return nil
}

// CryptoCurrencies lists the purchasable crypto currencies.
func (c *Client) CryptoCurrencies(ctx context.Context) ([]CryptoCurrency, error) {
	data, err := c.do(ctx, http.MethodGet, "lookup/currencies/crypto-currencies", nil, "", nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: crypto currencies: %w", err)
	}
	var list []CryptoCurrency
	if err := decodeList(data, &list); err != nil {
		return nil, fmt.Errorf("gateway: decode crypto currencies: %w", err)
	}
	return list, nil
}

// FiatCurrencies lists the supported fiat currencies and payment options.
func (c *Client) FiatCurrencies(ctx context.Context) ([]FiatCurrency, error) {
	query := url.Values{"apiKey": {c.apiKey}}
	data, err := c.do(ctx, http.MethodGet, "lookup/currencies/fiat-currencies", query, "", nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: fiat currencies: %w", err)
	}
	var list []FiatCurrency
	if err := decodeList(data, &list); err != nil {
		return nil, fmt.Errorf("gateway: decode fiat currencies: %w", err)
	}
	return list, nil
}

// FetchQuote prices a buy for the given parameters.
func (c *Client) FetchQuote(ctx context.Context, params QuoteParams) (*Quote, error) {
	query := url.Values{
		"apiKey":         {c.apiKey},
		"fiatCurrency":   {params.FiatCurrency},
		"cryptoCurrency": {params.CryptoCurrency},
		"isBuyOrSell":    {params.IsBuyOrSell},
		"network":        {params.Network},
		"paymentMethod":  {params.PaymentMethod},
		"fiatAmount":     {strconv.FormatFloat(params.FiatAmount, 'f', -1, 64)},
	}
	data, err := c.do(ctx, http.MethodGet, "lookup/quotes", query, "", nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: fetch quote: %w", err)
	}
	var quote Quote
	if err := json.Unmarshal(unwrapEnvelope(data), &quote); err != nil {
		return nil, fmt.Errorf("gateway: decode quote: %w", err)
	}
	// A decode that yields no quote id means the envelope was not the
	// shape we expected; an id-less quote cannot key the requirement
	// caches downstream.
	if quote.QuoteID == "" {
		return nil, fmt.Errorf("gateway: quote response missing quoteId")
	}
	return &quote, nil
}

// VerifyWalletAddress checks an address against the coverage endpoint. Any
// error, transport or API, means the address could not be confirmed valid.
func (c *Client) VerifyWalletAddress(ctx context.Context, cryptoCurrency, network, address string) error {
	query := url.Values{
		"cryptoCurrency": {cryptoCurrency},
		"network":        {network},
		"walletAddress":  {address},
	}
	if _, err := c.do(ctx, http.MethodGet, "cryptocoverage/api/v1/public/verify-wallet-address", query, "", nil); err != nil {
		return fmt.Errorf("gateway: verify wallet address: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body any) ([]byte, error) {
	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := apiErrorFromBody(resp.StatusCode, data)
		c.log.Printf("gateway: %s %s -> %d %s", method, path, apiErr.StatusCode, apiErr.Message)
		return nil, apiErr
	}
	return data, nil
}

// unwrapData strips a {"data": ...} envelope when present so callers can
// decode the payload regardless of wrapping.
func unwrapData(body []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return body
}

// unwrapEnvelope strips a {"response": ...} envelope after the data
// envelope. Objects need this before decoding: unmarshalling a wrapped
// object into a struct silently yields zero values.
func unwrapEnvelope(body []byte) []byte {
	payload := unwrapData(body)
	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && len(envelope.Response) > 0 {
		return envelope.Response
	}
	return payload
}

// decodeList decodes a list payload that may arrive bare, under "data", or
// under "response".
func decodeList(body []byte, out any) error {
	return json.Unmarshal(unwrapEnvelope(body), out)
}
