package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// SessionResponse represents a parking session in responses
type SessionResponse struct {
	ID            string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Plate         string  `json:"plate" example:"ABC123"`
	EntryTime     string  `json:"entry_time" example:"2025-03-10T08:00:00Z"`
	ExitTime      string  `json:"exit_time,omitempty" example:"2025-03-10T10:15:00Z"`
	DurationHours float64 `json:"duration_hours,omitempty" example:"2.25"`
	TotalAmount   string  `json:"total_amount,omitempty" example:"15000"`
	Status        string  `json:"status" example:"completed"`
}

// InvoiceResponse represents an invoice in responses
type InvoiceResponse struct {
	ID            string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	InvoiceNumber string  `json:"invoice_number" example:"INV-1834759283741921280"`
	Amount        string  `json:"amount" example:"15000"`
	DurationHours float64 `json:"duration_hours" example:"2.25"`
	Status        string  `json:"status" example:"pending"`
	PaymentMethod string  `json:"payment_method,omitempty" example:"card"`
}

// DailyReportResponse represents a daily report snapshot
type DailyReportResponse struct {
	ReportDate    string `json:"report_date" example:"2025-03-10"`
	TotalVehicles int    `json:"total_vehicles" example:"42"`
	TotalRevenue  string `json:"total_revenue" example:"230000"`
	HoursOpen     int    `json:"hours_open" example:"24"`
}

// ClientResponse represents a billing client
type ClientResponse struct {
	ID          string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string `json:"name" example:"Acme Corp"`
	Document    string `json:"document" example:"900123456-7"`
	BillingType string `json:"billing_type" example:"monthly"`
	MonthlyFee  string `json:"monthly_fee" example:"120000"`
}

// LoginResponse represents a successful authentication
type LoginResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Parkeo Parking Management API",
		Version:     "v1.0.0",
		Description: "Multi-account parking lot backend: vehicle sessions, hourly and monthly billing, invoices and reports",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	authErrors := []response.Response{
		response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing token"}, "401", "Unauthorized"),
		response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
	}

	endpoints := []*endpoint.EndPoint{
		// POST /v1/auth/login
		endpoint.New(
			endpoint.POST,
			"/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate an operator"),
			endpoint.WithDescription("Exchanges email and password for a signed session token"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginResponse{}, "200", "Authenticated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}, "401", "Unauthorized"),
			}),
		),

		// POST /v1/sessions - vehicle entry
		endpoint.New(
			endpoint.POST,
			"/sessions",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Register a vehicle entry"),
			endpoint.WithDescription("Opens a parking session for a plate. The vehicle is created on first sight; a vehicle already inside is rejected."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "201", "Session opened"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_ALREADY_OPEN", Message: "Vehicle already has an active session"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid plate"}, "422", "Unprocessable Entity"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/sessions/exit - vehicle exit by plate
		endpoint.New(
			endpoint.POST,
			"/sessions/exit",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("Close the active session for a plate"),
			endpoint.WithDescription("Completes the vehicle's single active session, computing duration and amount"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "200", "Session completed"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "NO_ACTIVE_SESSION", Message: "No active session for plate"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "SESSION_STATE_CONFLICT", Message: "Session state conflict"}, "409", "Conflict"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/sessions
		endpoint.New(
			endpoint.GET,
			"/sessions",
			endpoint.WithTags("Sessions"),
			endpoint.WithSummary("List sessions"),
			endpoint.WithParams(
				parameter.StrParam("active", parameter.Query, parameter.WithDescription("Set to true to list only open sessions")),
				parameter.StrParam("plate", parameter.Query, parameter.WithDescription("Filter history by plate")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]SessionResponse{}, "200", "Sessions"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/invoices
		endpoint.New(
			endpoint.POST,
			"/invoices",
			endpoint.WithTags("Invoices"),
			endpoint.WithSummary("Derive an invoice from a completed session"),
			endpoint.WithDescription("Freezes the session's entry, exit, duration and amount into a pending invoice. A session can be invoiced at most once."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(InvoiceResponse{}, "201", "Invoice created"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_NOT_COMPLETED", Message: "Session is not completed"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INVOICE_EXISTS", Message: "Session already invoiced"}, "409", "Conflict"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/invoices/{id}/pay
		endpoint.New(
			endpoint.POST,
			"/invoices/{id}/pay",
			endpoint.WithTags("Invoices"),
			endpoint.WithSummary("Settle a pending invoice"),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithRequired()),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(InvoiceResponse{}, "200", "Invoice paid"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "INVOICE_PAID", Message: "Invoice already paid"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INVOICE_CANCELLED", Message: "Invoice cancelled"}, "409", "Conflict"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/reports/daily
		endpoint.New(
			endpoint.POST,
			"/reports/daily",
			endpoint.WithTags("Reports"),
			endpoint.WithSummary("Generate the daily report"),
			endpoint.WithDescription("Aggregates one calendar day. Regeneration replaces the previous snapshot."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DailyReportResponse{}, "201", "Report generated"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/reports/daily/export
		endpoint.New(
			endpoint.GET,
			"/reports/daily/export",
			endpoint.WithTags("Reports"),
			endpoint.WithSummary("Download the daily report as a spreadsheet"),
			endpoint.WithParams(
				parameter.StrParam("date", parameter.Query, parameter.WithRequired(), parameter.WithDescription("Day to export, YYYY-MM-DD")),
			),
			endpoint.WithProduce([]mime.MIME{mime.MIME("text/csv")}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "200", "Spreadsheet"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/clients
		endpoint.New(
			endpoint.POST,
			"/clients",
			endpoint.WithTags("Clients"),
			endpoint.WithSummary("Register a billing client"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClientResponse{}, "201", "Client created"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "CLIENT_EXISTS", Message: "Document already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Admin role required"}, "403", "Forbidden"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
