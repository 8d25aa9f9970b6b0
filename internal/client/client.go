// Package client talks to the invoice API on behalf of one user. Authentication
// state lives in an explicit Session value handed to each call.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"invoice_generator/internal/model"
)

var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
	// Set when an invoice was stored but its PDF could not be generated
	InvoiceID      int64
	ArtifactStatus string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Session is the result of a successful login
type Session struct {
	Token string
	User  model.PublicProfile
}

// LoggedIn reports whether s carries a token
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// InvoiceForm is what a user fills in to create an invoice
type InvoiceForm struct {
	CustomerName      string
	PurchaseOrderNo   string
	BillDate          time.Time
	BillingAddress    string
	ShippingAddress   string
	ItemName          string
	Quantity          int
	Price             float64
	ItemDescription   string
	AdditionalDetails string
}

func (f InvoiceForm) values() url.Values {
	return url.Values{
		"customer_name":      {f.CustomerName},
		"purchase_order_no":  {f.PurchaseOrderNo},
		"bill_date":          {f.BillDate.Format(model.BillDateLayout)},
		"billing_address":    {f.BillingAddress},
		"shipping_address":   {f.ShippingAddress},
		"item_name":          {f.ItemName},
		"quantity":           {strconv.Itoa(f.Quantity)},
		"price":              {strconv.FormatFloat(f.Price, 'f', -1, 64)},
		"item_description":   {f.ItemDescription},
		"additional_details": {f.AdditionalDetails},
	}
}

// CreatedInvoice is the server's answer to CreateInvoice
type CreatedInvoice struct {
	Message   string  `json:"message"`
	InvoiceID int64   `json:"invoice_id"`
	Total     float64 `json:"total"`
	PDF       string  `json:"pdf"`
}

// Client is an HTTP client for the invoice API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL. A nil httpClient uses a client with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) Signup(ctx context.Context, in model.SignupInput) error {
	form := url.Values{
		"full_name":        {in.FullName},
		"username":         {in.Username},
		"email":            {in.Email},
		"phone":            {in.Phone},
		"password":         {in.Password},
		"confirm_password": {in.ConfirmPassword},
	}
	return c.postForm(ctx, nil, "/signup", form, nil)
}

// Login authenticates and returns a new Session
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*Session, error) {
	var resp struct {
		AccessToken string              `json:"access_token"`
		User        model.PublicProfile `json:"user"`
	}
	form := url.Values{"username_or_email": {usernameOrEmail}, "password": {password}}
	if err := c.postForm(ctx, nil, "/login", form, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("login response carried no token")
	}
	return &Session{Token: resp.AccessToken, User: resp.User}, nil
}

func (c *Client) CreateInvoice(ctx context.Context, sess *Session, form InvoiceForm) (*CreatedInvoice, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	var out CreatedInvoice
	if err := c.postForm(ctx, sess, "/create-invoice", form.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the session user's invoices, newest first
func (c *Client) History(ctx context.Context, sess *Session) ([]model.InvoiceSummary, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	var out []model.InvoiceSummary
	if err := c.do(ctx, sess, http.MethodGet, "/invoice-history", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderPDF asks the server to generate the invoice PDF again and returns its location
func (c *Client) RenderPDF(ctx context.Context, sess *Session, invoiceID int64) (string, error) {
	if !sess.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	var out struct {
		PDF string `json:"pdf"`
	}
	path := "/invoices/" + strconv.FormatInt(invoiceID, 10) + "/pdf"
	if err := c.do(ctx, sess, http.MethodPost, path, nil, "", &out); err != nil {
		return "", err
	}
	return out.PDF, nil
}

// DownloadPDF copies the invoice PDF into w
func (c *Client) DownloadPDF(ctx context.Context, sess *Session, invoiceID int64, w io.Writer) error {
	if !sess.LoggedIn() {
		return ErrNotLoggedIn
	}
	path := "/invoices/" + strconv.FormatInt(invoiceID, 10) + "/pdf"
	resp, err := c.send(ctx, sess, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read invoice PDF: %w", err)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, sess *Session, path string, form url.Values, out any) error {
	return c.do(ctx, sess, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) do(ctx context.Context, sess *Session, method, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, sess, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send performs the request and turns non-2xx responses into *APIError
func (c *Client) send(ctx context.Context, sess *Session, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sess.LoggedIn() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var payload struct {
		Error          string `json:"error"`
		InvoiceID      int64  `json:"invoice_id"`
		ArtifactStatus string `json:"artifact_status"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.InvoiceID = payload.InvoiceID
		apiErr.ArtifactStatus = payload.ArtifactStatus
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return nil, apiErr
}
