package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/clinimed/agenda/pkg/domain"
)

// requestTimeout bounds every API call. A request that exceeds it fails
// with a transport error rather than an HTTPError.
const requestTimeout = 10 * time.Second

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse is the login endpoint's success body. Token is empty in
// cookie-session deployments, where the server sets the cookie itself.
type LoginResponse struct {
	Token string      `json:"token,omitempty"`
	User  domain.User `json:"user"`
}

// RegisterRequest is the payload for creating a staff account.
type RegisterRequest struct {
	Name     string      `json:"nome"`
	Email    string      `json:"email"`
	Password string      `json:"senha"`
	Role     domain.Role `json:"role"`
	CRM      string      `json:"crm,omitempty"` // required when Role is DOCTOR
}

// BookAppointmentRequest is the public booking payload.
type BookAppointmentRequest struct {
	PatientName  string `json:"nomePaciente"`
	PatientEmail string `json:"emailPaciente"`
	Phone        string `json:"telefone,omitempty"`
	DoctorID     string `json:"medicoId"`
	Date         string `json:"data"` // "2006-01-02"
	Hour         string `json:"hora"` // "15:04"
}

// ScheduleRequest is the payload for creating or updating an office-hours block.
type ScheduleRequest struct {
	Weekday int    `json:"diaSemana"`
	Start   string `json:"horaInicio"`
	End     string `json:"horaFim"`
}

// Client is the clinic API client. Call sites never attach credentials
// themselves; the client injects the active credential on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string

	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithCookieJar makes the client carry server-set session cookies on
// every request. Used in cookie-session deployments, where the
// application never reads the credential value itself.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.httpClient.Jar = jar
	}
}

// New creates a new API client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetUnauthorizedHook registers fn to run whenever any call receives an
// HTTP 401, before the error is returned to the caller.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// --- Auth methods ---

// Me resolves the identity behind the attached credential.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := c.get(ctx, "/auth/me", &out); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &out.User, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, "/auth/login", req, &out); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &out, nil
}

// Register creates a new staff account. It does not log the caller in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.post(ctx, "/auth/register", req, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// Logout invalidates the server-side session (cookie deployments only).
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// --- Public methods ---

// PublicDoctors lists the doctors offered on the public booking form.
func (c *Client) PublicDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	if err := c.get(ctx, "/public/doctors", &doctors); err != nil {
		return nil, fmt.Errorf("client.PublicDoctors: %w", err)
	}
	return doctors, nil
}

// Availability returns a doctor's free slots on a date ("2006-01-02").
func (c *Client) Availability(ctx context.Context, doctorID, date string) ([]string, error) {
	params := url.Values{}
	params.Set("date", date)

	var out struct {
		AvailableSlots []string `json:"availableSlots"`
	}
	path := "/public/doctors/" + url.PathEscape(doctorID) + "/availability?" + params.Encode()
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("client.Availability: %w", err)
	}
	return out.AvailableSlots, nil
}

// BookAppointment books an appointment on behalf of a patient.
func (c *Client) BookAppointment(ctx context.Context, req BookAppointmentRequest) error {
	if err := c.post(ctx, "/public/appointments", req, nil); err != nil {
		return fmt.Errorf("client.BookAppointment: %w", err)
	}
	return nil
}

// --- Appointment methods ---

// Appointments lists appointments visible to the caller: a doctor sees
// only their own, a receptionist sees every appointment.
func (c *Client) Appointments(ctx context.Context) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	if err := c.get(ctx, "/appointments", &appointments); err != nil {
		return nil, fmt.Errorf("client.Appointments: %w", err)
	}
	return appointments, nil
}

// UpdateAppointmentStatus changes an appointment's lifecycle status.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	body := map[string]domain.AppointmentStatus{"status": status}
	if err := c.doRequest(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id)+"/status", body, nil); err != nil {
		return fmt.Errorf("client.UpdateAppointmentStatus: %w", err)
	}
	return nil
}

// CancelAppointment cancels an appointment by ID.
func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.CancelAppointment: %w", err)
	}
	return nil
}

// --- Schedule methods ---

// Schedules lists the calling doctor's office-hours blocks.
func (c *Client) Schedules(ctx context.Context) ([]domain.Schedule, error) {
	var schedules []domain.Schedule
	if err := c.get(ctx, "/schedules", &schedules); err != nil {
		return nil, fmt.Errorf("client.Schedules: %w", err)
	}
	return schedules, nil
}

// CreateSchedule adds an office-hours block.
func (c *Client) CreateSchedule(ctx context.Context, req ScheduleRequest) (*domain.Schedule, error) {
	var created domain.Schedule
	if err := c.post(ctx, "/schedules", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateSchedule: %w", err)
	}
	return &created, nil
}

// UpdateSchedule updates an office-hours block.
func (c *Client) UpdateSchedule(ctx context.Context, id string, req ScheduleRequest) error {
	if err := c.doRequest(ctx, http.MethodPut, "/schedules/"+url.PathEscape(id), req, nil); err != nil {
		return fmt.Errorf("client.UpdateSchedule: %w", err)
	}
	return nil
}

// DeleteSchedule removes an office-hours block.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/schedules/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteSchedule: %w", err)
	}
	return nil
}

// --- Doctor methods ---

// Doctors lists every doctor with contact details and booking counts.
func (c *Client) Doctors(ctx context.Context) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	if err := c.get(ctx, "/doctors", &doctors); err != nil {
		return nil, fmt.Errorf("client.Doctors: %w", err)
	}
	return doctors, nil
}

// DoctorDashboard returns the dashboard stats for a doctor.
func (c *Client) DoctorDashboard(ctx context.Context, doctorID string) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "/doctors/"+url.PathEscape(doctorID)+"/dashboard", &stats); err != nil {
		return nil, fmt.Errorf("client.DoctorDashboard: %w", err)
	}
	return &stats, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}
