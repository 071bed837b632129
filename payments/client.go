package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
)

type Config struct {
	BaseURL   string
	SecretKey string
	PublicKey string
	Timeout   time.Duration
}

// Client talks to the Nivuspay transaction API. Calls are never retried; the
// circuit breaker only short-circuits calls while the processor is failing.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.SecretKey,
			"X-Public-Key":  cfg.PublicKey,
			"Accept":        "application/json",
			"Content-Type":  "application/json",
		})

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:    "nivuspay",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[nivuspay] circuit %s: %s -> %s", name, from, to)
		},
	})

	return &Client{http: httpClient, breaker: breaker}
}

// post sends one request through the breaker. Only transport errors and 5xx
// answers count against the processor's health.
func (c *Client) post(ctx context.Context, path string, body any) (*resty.Response, error) {
	return c.breaker.Execute(func() (*resty.Response, error) {
		resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= 500 {
			return resp, &GatewayError{Message: "processor error", StatusCode: resp.StatusCode()}
		}
		return resp, nil
	})
}

type tokenRequest struct {
	CardNumber          string `json:"cardNumber"`
	CardCvv             string `json:"cardCvv"`
	CardExpirationMonth string `json:"cardExpirationMonth"`
	CardExpirationYear  string `json:"cardExpirationYear"`
	HolderName          string `json:"holderName"`
	HolderDocument      string `json:"holderDocument"`
}

// CreateCardToken exchanges raw card data for a single-use token.
func (c *Client) CreateCardToken(ctx context.Context, card Card, holderDocument string) (string, error) {
	if holderDocument == "" {
		holderDocument = DefaultHolderDocument
	}
	resp, err := c.post(ctx, "/transaction.createCardToken", tokenRequest{
		CardNumber:          card.Number,
		CardCvv:             card.CVV,
		CardExpirationMonth: card.ExpiryMonth,
		CardExpirationYear:  card.ExpiryYear,
		HolderName:          card.HolderName,
		HolderDocument:      holderDocument,
	})
	if err := checkResponse(resp, err, errTokenCreation); err != nil {
		return "", err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Token == "" {
		return "", &GatewayError{Message: errTokenCreation, Err: errors.New(errMalformed)}
	}
	return body.Token, nil
}

type purchaseCard struct {
	Token        string `json:"token"`
	Installments int    `json:"installments"`
}

type purchaseItem struct {
	UnitPrice int64  `json:"unitPrice"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Tangible  bool   `json:"tangible"`
}

type purchaseRequest struct {
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	CPF           string            `json:"cpf"`
	Phone         string            `json:"phone"`
	PaymentMethod string            `json:"paymentMethod"`
	CreditCard    purchaseCard      `json:"creditCard"`
	CEP           string            `json:"cep"`
	Complement    string            `json:"complement"`
	Number        string            `json:"number"`
	Street        string            `json:"street"`
	District      string            `json:"district"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	Amount        int64             `json:"amount"`
	Traceable     bool              `json:"traceable"`
	Items         []purchaseItem    `json:"items"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Purchase charges a tokenized card. The returned status is the processor's
// own string; deciding what it means for the order is up to the caller.
func (c *Client) Purchase(ctx context.Context, token string, req ChargeRequest) (*Transaction, error) {
	document := req.Customer.Document
	if document == "" {
		document = DefaultHolderDocument
	}

	items := make([]purchaseItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, purchaseItem{
			UnitPrice: ToMinorUnits(it.UnitPrice),
			Title:     it.Title,
			Quantity:  it.Quantity,
			Tangible:  true,
		})
	}

	resp, err := c.post(ctx, "/transaction.purchase", purchaseRequest{
		Name:          req.Customer.Name,
		Email:         req.Customer.Email,
		CPF:           document,
		Phone:         digitsOnly(req.Customer.Phone),
		PaymentMethod: "CREDIT_CARD",
		CreditCard:    purchaseCard{Token: token, Installments: 1},
		CEP:           digitsOnly(req.Address.ZipCode),
		Complement:    req.Address.Complement,
		Number:        req.Address.Number,
		Street:        req.Address.Street,
		District:      req.Address.District,
		City:          req.Address.City,
		State:         req.Address.State,
		Amount:        ToMinorUnits(req.Amount),
		Traceable:     true,
		Items:         items,
		Metadata:      req.Metadata,
	})
	if err := checkResponse(resp, err, errTransaction); err != nil {
		return nil, err
	}

	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.ID == "" {
		return nil, &GatewayError{Message: errTransaction, Err: errors.New(errMalformed)}
	}
	return &Transaction{ID: body.ID, Status: body.Status, Raw: resp.Body()}, nil
}

// Charge runs the full tokenize-then-purchase exchange.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*Transaction, error) {
	token, err := c.CreateCardToken(ctx, req.Card, req.Customer.Document)
	if err != nil {
		return nil, err
	}
	log.Println("[nivuspay] card token created")

	tx, err := c.Purchase(ctx, token, req)
	if err != nil {
		return nil, err
	}
	log.Printf("[nivuspay] transaction %s created with status %s", tx.ID, tx.Status)
	return tx, nil
}

func checkResponse(resp *resty.Response, err error, message string) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &GatewayError{Message: message, Err: errors.New(errUnavailable)}
	}
	if resp == nil {
		return &GatewayError{Message: message, Err: err}
	}
	if !resp.IsSuccess() {
		return &GatewayError{Message: message, StatusCode: resp.StatusCode()}
	}
	return nil
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
