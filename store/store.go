// Package store provides create/read/update/delete over survey submissions
// with remote-first, local-fallback semantics. A Store instance tracks which
// backend last served a read and routes edits to that backend only; nothing
// here is package-global, so independent sessions get independent stores.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ncc-robotics/workshop-survey/backend"
	"github.com/ncc-robotics/workshop-survey/localstore"
	"github.com/ncc-robotics/workshop-survey/log"
	"github.com/ncc-robotics/workshop-survey/model"
	"github.com/ncc-robotics/workshop-survey/survey"
	"github.com/ncc-robotics/workshop-survey/wire"
)

// Backend identifies which store is authoritative for the current session.
type Backend int

const (
	BackendNone Backend = iota
	BackendRemote
	BackendLocal
)

func (b Backend) String() string {
	switch b {
	case BackendRemote:
		return "remote"
	case BackendLocal:
		return "local"
	}
	return "none"
}

// Outcome tags a successful create with where the record actually landed.
// FallbackReason holds the absorbed remote error when Source is BackendLocal;
// the presentation layer decides whether to mention it.
type Outcome struct {
	Source         Backend
	FallbackReason error
}

// Local is the durable fallback target. *localstore.Store is the production
// implementation.
type Local interface {
	Read(ctx context.Context) ([]wire.Record, error)
	Write(ctx context.Context, records []wire.Record) error
}

var _ Local = (*localstore.Store)(nil)

type Store struct {
	remote backend.Remote
	local  Local

	mu     sync.Mutex
	active Backend
}

// New builds a store over a remote backend and a local fallback. remote may
// be nil when no backend is configured at all; every remote attempt then
// fails with a configuration error and the fallback chain still engages.
func New(remote backend.Remote, local Local) *Store {
	return &Store{
		remote: remote,
		local:  local,
		active: BackendNone,
	}
}

// ActiveBackend reports which store the most recent successful List decided
// is authoritative. Create never changes it.
func (s *Store) ActiveBackend() Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Store) kind() wire.Kind {
	if s.remote != nil {
		return s.remote.Kind()
	}
	return wire.KindSupabase
}

func (s *Store) remoteCreate(ctx context.Context, rec wire.Record) (wire.Record, error) {
	if s.remote == nil {
		return nil, &backend.ConfigurationError{Reason: "no remote backend"}
	}
	return s.remote.Create(ctx, rec)
}

// Create validates the record, tries the remote backend, and on any remote
// failure appends the submission to the local store instead. The remote
// error never reaches the submitter; it comes back inside the Outcome so the
// caller can note that local storage was used.
func (s *Store) Create(ctx context.Context, rec model.SurveyRecord) (model.StoredSubmission, Outcome, error) {
	if fields := survey.Validate(rec); len(fields) > 0 {
		return model.StoredSubmission{}, Outcome{}, &ValidationError{Fields: fields}
	}

	wrec, err := wire.ToRecord(rec, s.kind())
	if err != nil {
		return model.StoredSubmission{}, Outcome{}, err
	}

	created, remoteErr := s.remoteCreate(ctx, wrec)
	if remoteErr == nil {
		sub, err := wire.FromRecord(created, s.kind())
		if err != nil {
			remoteErr = err
		} else {
			return sub, Outcome{Source: BackendRemote}, nil
		}
	}
	log.Warnf("store.create: remote failed, using local fallback: %v", remoteErr)

	sub, err := s.createLocal(ctx, rec, wrec)
	if err != nil {
		return model.StoredSubmission{}, Outcome{}, &AggregateError{
			Err: multierror.Append(nil, remoteErr, err),
		}
	}
	return sub, Outcome{Source: BackendLocal, FallbackReason: remoteErr}, nil
}

func (s *Store) createLocal(ctx context.Context, rec model.SurveyRecord, wrec wire.Record) (model.StoredSubmission, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.StoredSubmission{}, err
	}
	now := time.Now().UTC()

	entry := wire.Record{}
	for k, v := range wrec {
		entry[k] = v
	}
	entry["id"] = id.String()
	entry[s.kind().TimestampField()] = now.Format(time.RFC3339)

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.local.Read(ctx)
	if err != nil {
		// an unreadable list must not block a submission; start over
		log.Warnf("store.create: discarding unreadable local list: %v", err)
		records = nil
	}
	records = append(records, entry)

	err = s.local.Write(ctx, records)
	if err != nil {
		return model.StoredSubmission{}, errors.Wrap(err, "local store write")
	}

	return model.StoredSubmission{
		ID:           id.String(),
		SurveyRecord: rec,
		CreatedAt:    now,
	}, nil
}

func (s *Store) remoteList(ctx context.Context) ([]wire.Record, error) {
	if s.remote == nil {
		return nil, &backend.ConfigurationError{Reason: "no remote backend"}
	}
	return s.remote.List(ctx)
}

// List returns the submissions from the remote backend when it answers, and
// from the local store otherwise, recording which one became authoritative.
// An empty local store after a remote failure is not an error; only both
// stores failing surfaces one, and even then the result is an empty list.
func (s *Store) List(ctx context.Context) ([]model.StoredSubmission, Backend, error) {
	records, remoteErr := s.remoteList(ctx)
	if remoteErr == nil {
		subs := s.translate(records)
		s.setActive(BackendRemote)
		return subs, BackendRemote, nil
	}
	log.Warnf("store.list: remote failed, reading local fallback: %v", remoteErr)

	s.mu.Lock()
	records, localErr := s.local.Read(ctx)
	s.mu.Unlock()

	if localErr != nil {
		s.setActive(BackendNone)
		return []model.StoredSubmission{}, BackendNone, &AggregateError{
			Err: multierror.Append(nil, remoteErr, localErr),
		}
	}
	if len(records) == 0 {
		log.Debug("store.list: local fallback is empty")
		s.setActive(BackendNone)
		return []model.StoredSubmission{}, BackendNone, nil
	}

	subs := s.translate(records)
	s.setActive(BackendLocal)
	return subs, BackendLocal, nil
}

func (s *Store) setActive(b Backend) {
	s.mu.Lock()
	s.active = b
	s.mu.Unlock()
}

func (s *Store) translate(records []wire.Record) []model.StoredSubmission {
	subs := make([]model.StoredSubmission, 0, len(records))
	for _, rec := range records {
		sub, err := wire.FromRecord(rec, s.kind())
		if err != nil {
			log.Warnf("store.list: skipping record: %v", err)
			continue
		}
		subs = append(subs, sub)
	}
	return subs
}

// Update replaces the record at id, routed strictly to the backend the last
// List decided on. Trying the other store instead could edit a different
// record than the one being viewed, so it is never attempted.
func (s *Store) Update(ctx context.Context, id string, sub model.StoredSubmission) (model.StoredSubmission, error) {
	if fields := survey.Validate(sub.SurveyRecord); len(fields) > 0 {
		return model.StoredSubmission{}, &ValidationError{Fields: fields}
	}

	switch s.ActiveBackend() {
	case BackendRemote:
		return s.updateRemote(ctx, id, sub)
	case BackendLocal:
		return s.updateLocal(ctx, id, sub)
	}
	return model.StoredSubmission{}, &backend.NotFoundError{ID: id}
}

func (s *Store) updateRemote(ctx context.Context, id string, sub model.StoredSubmission) (model.StoredSubmission, error) {
	wrec, err := wire.ToRecord(sub.SurveyRecord, s.kind())
	if err != nil {
		return model.StoredSubmission{}, err
	}

	updated, err := s.remote.Update(ctx, id, wrec)
	if err != nil {
		return model.StoredSubmission{}, err
	}
	return wire.FromRecord(updated, s.kind())
}

func (s *Store) updateLocal(ctx context.Context, id string, sub model.StoredSubmission) (model.StoredSubmission, error) {
	wrec, err := wire.ToRecord(sub.SurveyRecord, s.kind())
	if err != nil {
		return model.StoredSubmission{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.local.Read(ctx)
	if err != nil {
		return model.StoredSubmission{}, err
	}

	found := false
	for i, rec := range records {
		if rec.ID() != id {
			continue
		}
		// keep the identity and creation fields exactly as written
		for _, key := range []string{"id", "$id", "submitted_at", "created_at", "$createdAt"} {
			if v, ok := rec[key]; ok {
				wrec[key] = v
			}
		}
		records[i] = wrec
		found = true
		break
	}
	if !found {
		return model.StoredSubmission{}, &backend.NotFoundError{ID: id}
	}

	err = s.local.Write(ctx, records)
	if err != nil {
		return model.StoredSubmission{}, err
	}
	return wire.FromRecord(wrec, s.kind())
}

// Delete removes the record at id from the active backend, under the same
// routing rule as Update.
func (s *Store) Delete(ctx context.Context, id string) error {
	switch s.ActiveBackend() {
	case BackendRemote:
		return s.remote.Delete(ctx, id)
	case BackendLocal:
		return s.deleteLocal(ctx, id)
	}
	return &backend.NotFoundError{ID: id}
}

func (s *Store) deleteLocal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.local.Read(ctx)
	if err != nil {
		return err
	}

	kept := make([]wire.Record, 0, len(records))
	for _, rec := range records {
		if rec.ID() != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return &backend.NotFoundError{ID: id}
	}
	return s.local.Write(ctx, kept)
}
