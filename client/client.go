// Package client talks to the osteolog REST API the way the web frontend
// does: a cookie session, cached reads, and mutations that invalidate the
// affected queries so the next read refetches.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/learllr/osteolog/events"
	"github.com/learllr/osteolog/models"
	"github.com/learllr/osteolog/search"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode  int
	Message     string
	RequiresMFA bool
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	stream  *http.Client
	cache   *QueryCache
}

// New creates a client for the API served at baseURL (e.g. http://localhost:5000).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
		stream:  &http.Client{Jar: jar},
		cache:   NewQueryCache(),
	}, nil
}

// Cache exposes the query cache.
func (c *Client) Cache() *QueryCache {
	return c.cache
}

// do sends a JSON request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error       interface{} `json:"error"`
			Message     string      `json:"message"`
			RequiresMFA bool        `json:"requiresMfa"`
		}
		if json.Unmarshal(respBody, &payload) == nil {
			apiErr.RequiresMFA = payload.RequiresMFA
			if msg, ok := payload.Error.(string); ok {
				apiErr.Message = msg
			} else {
				apiErr.Message = payload.Message
			}
		}
		return nil, apiErr
	}
	return respBody, nil
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// cached serves key from the cache, fetching path on a miss.
func cached[T any](ctx context.Context, c *Client, key, path string) (T, error) {
	var out T
	if data, ok := c.cache.Get(key); ok {
		return out, json.Unmarshal(data, &out)
	}

	generation := c.cache.Generation()
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	c.cache.Set(key, data, generation)
	return out, nil
}

func patientPath(id int) string {
	return "/api/patient/" + strconv.Itoa(id)
}

// --- auth ---

// Signup creates an account; the session cookie is kept in the jar.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.UserResponse, error) {
	var out struct {
		User models.UserResponse `json:"user"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/auth/signup", req, &out); err != nil {
		return nil, err
	}
	c.cache.Clear()
	return &out.User, nil
}

// Login opens a session. With MFA enabled and no code, the error is an
// *APIError with RequiresMFA set.
func (c *Client) Login(ctx context.Context, email, password, mfaCode string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password, MFACode: mfaCode}
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	c.cache.Clear()
	return &out, nil
}

// Logout ends the session and forgets every cached query.
func (c *Client) Logout(ctx context.Context) error {
	err := c.send(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.cache.Clear()
	return err
}

func (c *Client) Me(ctx context.Context) (*models.UserResponse, error) {
	user, err := cached[models.UserResponse](ctx, c, events.KeyMe, "/api/auth/me")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- queries ---

func (c *Client) Patients(ctx context.Context) ([]models.Patient, error) {
	return cached[[]models.Patient](ctx, c, events.KeyPatients, "/api/patient")
}

func (c *Client) Patient(ctx context.Context, id int) (*models.PatientDetails, error) {
	details, err := cached[models.PatientDetails](ctx, c, events.PatientKey(id), patientPath(id))
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// Sleep returns the patient's sleep profile, nil when none was recorded.
func (c *Client) Sleep(ctx context.Context, patientID int) (*models.Sleep, error) {
	details, err := cached[struct {
		Sleep *models.Sleep `json:"sleep"`
	}](ctx, c, events.SleepKey(patientID), patientPath(patientID))
	if err != nil {
		return nil, err
	}
	return details.Sleep, nil
}

func (c *Client) Consultations(ctx context.Context, patientID int) ([]models.Consultation, error) {
	return cached[[]models.Consultation](ctx, c, events.ConsultationsKey(patientID),
		"/api/consultation/"+strconv.Itoa(patientID))
}

func (c *Client) Appointments(ctx context.Context) ([]models.Appointment, error) {
	return cached[[]models.Appointment](ctx, c, events.KeyAppointments, "/api/appointments")
}

func (c *Client) PatientAppointments(ctx context.Context, patientID int) ([]models.Appointment, error) {
	return cached[[]models.Appointment](ctx, c, events.AppointmentsKey(patientID),
		"/api/appointments/"+strconv.Itoa(patientID))
}

// SearchPatients filters the cached patient list like the search box.
func (c *Client) SearchPatients(ctx context.Context, query string, now time.Time) ([]models.Patient, error) {
	patients, err := c.Patients(ctx)
	if err != nil {
		return nil, err
	}
	return search.Patients(patients, query, now), nil
}

// --- mutations ---

func (c *Client) CreatePatient(ctx context.Context, p models.Patient) (*models.Patient, error) {
	var out models.Patient
	if err := c.send(ctx, http.MethodPost, "/api/patient", p, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(events.KeyPatients)
	return &out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, p models.Patient) (*models.Patient, error) {
	var out models.Patient
	if err := c.send(ctx, http.MethodPut, patientPath(p.ID), p, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(events.KeyPatients, events.PatientKey(p.ID))
	return &out, nil
}

func (c *Client) DeletePatient(ctx context.Context, id int) error {
	if err := c.send(ctx, http.MethodDelete, patientPath(id), nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(events.KeyPatients, events.PatientKey(id),
		events.ConsultationsKey(id), events.KeyAppointments)
	return nil
}

func (c *Client) UpdateSleep(ctx context.Context, patientID int, sl models.Sleep) (*models.Sleep, error) {
	var out models.Sleep
	if err := c.send(ctx, http.MethodPut, patientPath(patientID)+"/sleep", sl, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(events.PatientKey(patientID))
	return &out, nil
}

func (c *Client) UpdateGynecology(ctx context.Context, patientID int, g models.Gynecology) (*models.Gynecology, error) {
	var out models.Gynecology
	if err := c.send(ctx, http.MethodPut, patientPath(patientID)+"/gynecology", g, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(events.PatientKey(patientID))
	return &out, nil
}

// AddSection posts item to one of the patient's history sections
// ("activities", "warnings", ...) and decodes the created row into out.
func (c *Client) AddSection(ctx context.Context, patientID int, section string, item, out interface{}) error {
	if err := c.send(ctx, http.MethodPost, patientPath(patientID)+"/"+section, item, out); err != nil {
		return err
	}
	c.cache.Invalidate(events.PatientKey(patientID))
	return nil
}

func (c *Client) CreateConsultation(ctx context.Context, consultation models.Consultation) (*models.Consultation, error) {
	var out models.Consultation
	if err := c.send(ctx, http.MethodPost, "/api/consultation", consultation, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(events.ConsultationsKey(out.PatientID))
	return &out, nil
}

func (c *Client) UpdateConsultation(ctx context.Context, consultation models.Consultation) (*models.Consultation, error) {
	var out models.Consultation
	path := "/api/consultation/" + strconv.Itoa(consultation.ID)
	if err := c.send(ctx, http.MethodPut, path, consultation, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(events.ConsultationsKey(out.PatientID))
	return &out, nil
}

func (c *Client) DeleteConsultation(ctx context.Context, consultation models.Consultation) error {
	path := "/api/consultation/" + strconv.Itoa(consultation.ID)
	if err := c.send(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(events.ConsultationsKey(consultation.PatientID))
	return nil
}

func (c *Client) CreateAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error) {
	var out models.Appointment
	if err := c.send(ctx, http.MethodPost, "/api/appointments", req, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(events.KeyAppointments)
	return &out, nil
}

// ExportAppointments downloads the appointment spreadsheet.
func (c *Client) ExportAppointments(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/appointments/export", nil)
}

// Watch follows the server's invalidation stream and drops the named keys
// from the cache until ctx is cancelled or the stream ends.
func (c *Client) Watch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("open event stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode}
	}

	scanner := bufio.NewScanner(resp.Body)
	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			event = ""
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:") && event == "invalidate":
			c.cache.Invalidate(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}
