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

// AppwriteConfig carries the identifiers of an Appwrite project. The
// collection must define the submission attributes in snake_case, with
// submitted_at holding the creation instant.
type AppwriteConfig struct {
	Endpoint     string
	ProjectID    string
	APIKey       string
	DatabaseID   string
	CollectionID string
}

type Appwrite struct {
	cfg    AppwriteConfig
	client *http.Client
}

func NewAppwrite(cfg AppwriteConfig, timeout time.Duration) *Appwrite {
	return &Appwrite{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (a *Appwrite) Kind() wire.Kind { return wire.KindAppwrite }

func (a *Appwrite) configured() error {
	switch {
	case a.cfg.Endpoint == "":
		return &ConfigurationError{Reason: "appwrite endpoint missing"}
	case a.cfg.ProjectID == "":
		return &ConfigurationError{Reason: "appwrite project id missing"}
	case a.cfg.DatabaseID == "":
		return &ConfigurationError{Reason: "appwrite database id missing"}
	case a.cfg.CollectionID == "":
		return &ConfigurationError{Reason: "appwrite collection id missing"}
	}
	return nil
}

func (a *Appwrite) documentsURL() string {
	return fmt.Sprintf("%s/databases/%s/collections/%s/documents",
		a.cfg.Endpoint, a.cfg.DatabaseID, a.cfg.CollectionID)
}

func (a *Appwrite) Create(ctx context.Context, rec wire.Record) (wire.Record, error) {
	if err := a.configured(); err != nil {
		return nil, err
	}

	// the collection stores its own creation attribute alongside
	// Appwrite's $createdAt metadata
	data := wire.Record{}
	for k, v := range rec {
		data[k] = v
	}
	data["submitted_at"] = time.Now().UTC().Format(time.RFC3339)

	body := map[string]any{
		"documentId": "unique()",
		"data":       data,
	}

	var doc wire.Record
	err := a.do(ctx, http.MethodPost, a.documentsURL(), body, &doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *Appwrite) List(ctx context.Context) ([]wire.Record, error) {
	if err := a.configured(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Add("queries[]", `orderDesc("submitted_at")`)
	q.Add("queries[]", fmt.Sprintf("limit(%d)", listLimit))

	var result struct {
		Total     int           `json:"total"`
		Documents []wire.Record `json:"documents"`
	}
	err := a.do(ctx, http.MethodGet, a.documentsURL()+"?"+q.Encode(), nil, &result)
	if err != nil {
		return nil, err
	}
	return result.Documents, nil
}

func (a *Appwrite) Update(ctx context.Context, id string, rec wire.Record) (wire.Record, error) {
	if err := a.configured(); err != nil {
		return nil, err
	}

	var doc wire.Record
	err := a.do(ctx, http.MethodPatch, a.documentsURL()+"/"+url.PathEscape(id), map[string]any{"data": rec}, &doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *Appwrite) Delete(ctx context.Context, id string) error {
	if err := a.configured(); err != nil {
		return err
	}
	return a.do(ctx, http.MethodDelete, a.documentsURL()+"/"+url.PathEscape(id), nil, nil)
}

func (a *Appwrite) do(ctx context.Context, method, rawURL string, body any, out any) error {
	op := "appwrite." + method

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
	req.Header.Set("X-Appwrite-Project", a.cfg.ProjectID)
	if a.cfg.APIKey != "" {
		req.Header.Set("X-Appwrite-Key", a.cfg.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{ID: rawURL}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &NetworkError{Op: op, Err: errors.Errorf("status %d: %s", resp.StatusCode, msg)}
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
