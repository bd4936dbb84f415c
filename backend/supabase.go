package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/ncc-robotics/workshop-survey/wire"
)

// SupabaseConfig carries the identifiers of a Supabase project. Rows live in
// a snake_case table with a server-assigned id and created_at.
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Table   string
}

type Supabase struct {
	cfg    SupabaseConfig
	client *http.Client
}

func NewSupabase(cfg SupabaseConfig, timeout time.Duration) *Supabase {
	if cfg.Table == "" {
		cfg.Table = "survey_submissions"
	}
	return &Supabase{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Supabase) Kind() wire.Kind { return wire.KindSupabase }

func (s *Supabase) configured() error {
	switch {
	case s.cfg.URL == "":
		return &ConfigurationError{Reason: "supabase url missing"}
	case s.cfg.AnonKey == "":
		return &ConfigurationError{Reason: "supabase anon key missing"}
	}
	return nil
}

func (s *Supabase) tableURL() string {
	return s.cfg.URL + "/rest/v1/" + url.PathEscape(s.cfg.Table)
}

func (s *Supabase) Create(ctx context.Context, rec wire.Record) (wire.Record, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	var rows []wire.Record
	err := s.do(ctx, http.MethodPost, s.tableURL(), rec, &rows, "return=representation")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &NetworkError{Op: "supabase.insert", Err: errors.New("insert returned no row")}
	}
	return rows[0], nil
}

func (s *Supabase) List(ctx context.Context) ([]wire.Record, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	q.Set("limit", fmt.Sprint(listLimit))

	var rows []wire.Record
	err := s.do(ctx, http.MethodGet, s.tableURL()+"?"+q.Encode(), nil, &rows, "")
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Supabase) Update(ctx context.Context, id string, rec wire.Record) (wire.Record, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	var rows []wire.Record
	err := s.do(ctx, http.MethodPatch, s.byID(id), rec, &rows, "return=representation")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{ID: id}
	}
	return rows[0], nil
}

func (s *Supabase) Delete(ctx context.Context, id string) error {
	if err := s.configured(); err != nil {
		return err
	}

	var rows []wire.Record
	err := s.do(ctx, http.MethodDelete, s.byID(id), nil, &rows, "return=representation")
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (s *Supabase) byID(id string) string {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return s.tableURL() + "?" + q.Encode()
}

func (s *Supabase) do(ctx context.Context, method, rawURL string, body any, out any, prefer string) error {
	op := "supabase." + method

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("apikey", s.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+s.cfg.AnonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Op: op, Err: errors.New(readableError(resp.Body, resp.StatusCode))}
	}

	if out == nil {
		return nil
	}
	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return &NetworkError{Op: op, Err: errors.Wrap(err, "malformed response")}
	}
	return nil
}

// readableError maps PostgREST error codes to the categories an operator can
// act on without a Postgres manual.
func readableError(body io.Reader, status int) string {
	var perr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	if json.Unmarshal(raw, &perr) != nil || perr.Code == "" {
		return fmt.Sprintf("status %d: %s", status, raw)
	}

	switch perr.Code {
	case "42P01":
		return fmt.Sprintf("relation does not exist: %s", perr.Message)
	case "PGRST205", "PGRST116":
		return fmt.Sprintf("table not found: %s", perr.Message)
	case "23505":
		return fmt.Sprintf("unique-constraint violation: %s", perr.Message)
	}
	return fmt.Sprintf("request failed (%s): %s", perr.Code, perr.Message)
}
