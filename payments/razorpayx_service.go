package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	config "github.com/edustack/edu_marketplace/configs"
)

const razorpayBaseURL = "https://api.razorpay.com"

// MinPayoutAmount is the smallest amount, in paise, the rail will disburse.
const MinPayoutAmount int64 = 100

const narrationMaxLength = 30

var ifscRegex = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

var nonNarrationRegex = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

// ValidIFSC reports whether code is a well-formed IFSC bank code. The check
// is applied upper-cased, so a lower-case code from a form is accepted.
func ValidIFSC(code string) bool {
	return ifscRegex.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

// FormatNarration builds the bank-statement narration for a billing period.
// The rail accepts only alphanumerics and spaces, at most 30 characters.
func FormatNarration(prefix string, month, year int) string {
	narration := fmt.Sprintf("%s %d %d", prefix, month, year)
	narration = nonNarrationRegex.ReplaceAllString(narration, "")
	if len(narration) > narrationMaxLength {
		narration = narration[:narrationMaxLength]
	}
	narration = strings.TrimSpace(narration)
	if narration == "" {
		return "Payout"
	}
	return narration
}

type BankDetails struct {
	AccountHolderName string
	AccountNumber     string
	IFSCCode          string
	BankName          string
}

type DisbursementRequest struct {
	FundAccountID  string
	Amount         int64
	Currency       string
	ReferenceID    string
	Narration      string
	IdempotencyKey string
}

type DisbursementResponse struct {
	ExternalPayoutID string
	Status           string
}

type railError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type contactResponse struct {
	ID string `json:"id"`
}

type fundAccountResponse struct {
	ID string `json:"id"`
}

type payoutResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RazorpayXClient talks to the RazorpayX payout rail. Construct it once in
// main and pass it to whatever needs to move money; tests substitute a fake
// via the payouts.Gateway interface.
type RazorpayXClient struct {
	KeyID         string
	KeySecret     string
	AccountNumber string
	BaseURL       string
	HTTPClient    *http.Client
}

func NewRazorpayXClient() *RazorpayXClient {
	return &RazorpayXClient{
		KeyID:         config.Config("RAZORPAYX_KEY_ID"),
		KeySecret:     config.Config("RAZORPAYX_KEY_SECRET"),
		AccountNumber: config.Config("RAZORPAYX_ACCOUNT_NUMBER"),
		BaseURL:       razorpayBaseURL,
		HTTPClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *RazorpayXClient) checkCredentials() error {
	if c.KeyID == "" || c.KeySecret == "" {
		return errors.New("RazorpayX credentials are not configured (RAZORPAYX_KEY_ID / RAZORPAYX_KEY_SECRET)")
	}
	return nil
}

// post sends an authenticated JSON request and decodes the response into out,
// surfacing the rail's own error description on a non-2xx status.
func (c *RazorpayXClient) post(path string, payload interface{}, headers map[string]string, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %v", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to payout rail failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read payout rail response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var railErr railError
		if err := json.Unmarshal(respBody, &railErr); err == nil && railErr.Error.Description != "" {
			return fmt.Errorf("payout rail rejected the request: %s", railErr.Error.Description)
		}
		log.Printf("RazorpayX API error on %s: %s", path, string(respBody))
		return fmt.Errorf("payout rail returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal payout rail response: %v", err)
	}
	return nil
}

// RegisterContact creates the rail-side contact for an educator. The call is
// not idempotent; callers must check for an existing contact id first.
func (c *RazorpayXClient) RegisterContact(name, email, referenceID string) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", errors.New("contact name is required")
	}

	payload := map[string]string{
		"name":         name,
		"email":        email,
		"type":         "vendor",
		"reference_id": referenceID,
	}

	var contact contactResponse
	if err := c.post("/v1/contacts", payload, nil, &contact); err != nil {
		return "", fmt.Errorf("failed to register contact: %w", err)
	}
	return contact.ID, nil
}

// RegisterFundAccount links an educator's bank account to their rail contact.
// Re-registering after a bank-detail change produces a new fund account that
// replaces the previous reference.
func (c *RazorpayXClient) RegisterFundAccount(contactID string, bank BankDetails) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}
	if contactID == "" {
		return "", errors.New("contact id is required to register a fund account")
	}
	if strings.TrimSpace(bank.AccountHolderName) == "" {
		return "", errors.New("account holder name is required")
	}
	if strings.TrimSpace(bank.AccountNumber) == "" {
		return "", errors.New("account number is required")
	}
	if !ValidIFSC(bank.IFSCCode) {
		return "", fmt.Errorf("invalid IFSC code %q", bank.IFSCCode)
	}

	payload := map[string]interface{}{
		"contact_id":   contactID,
		"account_type": "bank_account",
		"bank_account": map[string]string{
			"name":           bank.AccountHolderName,
			"ifsc":           strings.ToUpper(strings.TrimSpace(bank.IFSCCode)),
			"account_number": bank.AccountNumber,
		},
	}

	var fundAccount fundAccountResponse
	if err := c.post("/v1/fund_accounts", payload, nil, &fundAccount); err != nil {
		return "", fmt.Errorf("failed to register fund account: %w", err)
	}
	return fundAccount.ID, nil
}

// CreateDisbursement moves money to a fund account. The caller-generated
// idempotency key is forwarded on the request so the rail deduplicates
// retries itself; the same record must always present the same key.
func (c *RazorpayXClient) CreateDisbursement(req DisbursementRequest) (*DisbursementResponse, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}
	if c.AccountNumber == "" {
		return nil, errors.New("RAZORPAYX_ACCOUNT_NUMBER is not configured")
	}
	if req.IdempotencyKey == "" {
		return nil, errors.New("idempotency key is required for a disbursement")
	}
	if req.FundAccountID == "" {
		return nil, errors.New("fund account id is required for a disbursement")
	}

	payload := map[string]interface{}{
		"account_number":       c.AccountNumber,
		"fund_account_id":      req.FundAccountID,
		"amount":               req.Amount,
		"currency":             req.Currency,
		"mode":                 "IMPS",
		"purpose":              "payout",
		"queue_if_low_balance": true,
		"reference_id":         req.ReferenceID,
		"narration":            req.Narration,
	}
	headers := map[string]string{"X-Payout-Idempotency": req.IdempotencyKey}

	var payout payoutResponse
	if err := c.post("/v1/payouts", payload, headers, &payout); err != nil {
		return nil, fmt.Errorf("failed to create disbursement: %w", err)
	}

	log.Printf("✅ Disbursement accepted by rail: payout=%s status=%s reference=%s", payout.ID, payout.Status, req.ReferenceID)
	return &DisbursementResponse{ExternalPayoutID: payout.ID, Status: payout.Status}, nil
}
