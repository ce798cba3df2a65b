package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/kvstore"
)

// ReservationsKey is the store key holding the JSON array of reservations.
const ReservationsKey = "reservations"

type ReservationRepository interface {
	Initialize(ctx context.Context) error
	GenerateID() string
	GetAll(ctx context.Context) ([]domain.Reservation, error)
	Add(ctx context.Context, patch domain.Patch) (domain.Reservation, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Reservation, bool, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Reservation, bool, error)
}

// KVReservationRepository keeps the whole collection under one key. Every call
// reads the collection fresh and writes it back whole, so a caller sees its own
// writes. Two processes sharing a backend are not coordinated: the last write
// wins.
//
// Records are kept as the bytes they were stored with. Only the record a call
// creates or updates is re-encoded, so records the ledger cannot fully read
// survive other writes unchanged.
type KVReservationRepository struct {
	store *kvstore.Store[[]json.RawMessage]
	ids   IDGenerator
	now   func() time.Time
}

type Option func(*KVReservationRepository)

func WithIDGenerator(ids IDGenerator) Option {
	return func(r *KVReservationRepository) {
		r.ids = ids
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *KVReservationRepository) {
		r.now = now
	}
}

// NewReservationStore binds the reservation collection key on backend.
func NewReservationStore(backend kvstore.Backend) *kvstore.Store[[]json.RawMessage] {
	return kvstore.New[[]json.RawMessage](backend, ReservationsKey)
}

func NewReservationRepository(store *kvstore.Store[[]json.RawMessage], opts ...Option) *KVReservationRepository {
	repo := &KVReservationRepository{
		store: store,
		ids:   NewTimestampIDs(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// record pairs a stored entry with its lenient decoding.
type record struct {
	raw json.RawMessage
	res domain.Reservation
}

func (r *KVReservationRepository) load(ctx context.Context) ([]record, error) {
	raws, ok, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []record{}, nil
	}

	records := make([]record, 0, len(raws))
	for _, raw := range raws {
		var res domain.Reservation
		if err := json.Unmarshal(raw, &res); err != nil {
			res = domain.Reservation{}
		}
		records = append(records, record{raw: raw, res: res})
	}
	return records, nil
}

func (r *KVReservationRepository) save(ctx context.Context, records []record) error {
	raws := make([]json.RawMessage, len(records))
	for i, rec := range records {
		raws[i] = rec.raw
	}
	return r.store.Save(ctx, raws)
}

func (r *KVReservationRepository) Initialize(ctx context.Context) error {
	_, ok, err := r.store.Get(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return r.store.Save(ctx, []json.RawMessage{})
}

func (r *KVReservationRepository) GenerateID() string {
	return r.ids.NewID()
}

func (r *KVReservationRepository) GetAll(ctx context.Context) ([]domain.Reservation, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reservation, len(records))
	for i, rec := range records {
		out[i] = rec.res
	}
	return out, nil
}

func (r *KVReservationRepository) Add(ctx context.Context, patch domain.Patch) (domain.Reservation, error) {
	records, err := r.load(ctx)
	if err != nil {
		return domain.Reservation{}, err
	}

	created := domain.ApplyPatch(domain.Reservation{
		ID:        r.GenerateID(),
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}, patch)
	raw, err := json.Marshal(created)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("encode reservation: %w", err)
	}

	if err := r.save(ctx, append(records, record{raw: raw, res: created})); err != nil {
		return domain.Reservation{}, err
	}
	return created, nil
}

func (r *KVReservationRepository) Delete(ctx context.Context, id string) error {
	records, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]record, 0, len(records))
	for _, rec := range records {
		if rec.res.ID != id {
			kept = append(kept, rec)
		}
	}
	return r.save(ctx, kept)
}

func (r *KVReservationRepository) GetByID(ctx context.Context, id string) (domain.Reservation, bool, error) {
	records, err := r.load(ctx)
	if err != nil {
		return domain.Reservation{}, false, err
	}
	for _, rec := range records {
		if rec.res.ID == id {
			return rec.res, true, nil
		}
	}
	return domain.Reservation{}, false, nil
}

func (r *KVReservationRepository) Update(ctx context.Context, id string, patch domain.Patch) (domain.Reservation, bool, error) {
	records, err := r.load(ctx)
	if err != nil {
		return domain.Reservation{}, false, err
	}

	index := -1
	for i, rec := range records {
		if rec.res.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return domain.Reservation{}, false, nil
	}

	merged := domain.ApplyPatch(records[index].res, patch)
	raw, err := mergeRaw(records[index].raw, merged, patch)
	if err != nil {
		return domain.Reservation{}, false, err
	}
	records[index] = record{raw: raw, res: merged}

	if err := r.save(ctx, records); err != nil {
		return domain.Reservation{}, false, err
	}
	return merged, true, nil
}

// mergeRaw rewrites only the sub-objects present in patch, keeping id,
// createdAt and any unknown keys exactly as stored.
func mergeRaw(stored json.RawMessage, merged domain.Reservation, patch domain.Patch) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(stored, &fields); err != nil || fields == nil {
		return json.Marshal(merged)
	}

	set := func(key string, value interface{}) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		fields[key] = data
		return nil
	}
	if patch.Customer != nil {
		if err := set("customer", merged.Customer); err != nil {
			return nil, err
		}
	}
	if patch.Booking != nil {
		if err := set("booking", merged.Booking); err != nil {
			return nil, err
		}
	}
	if patch.Financial != nil {
		if err := set("financial", merged.Financial); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

var _ ReservationRepository = (*KVReservationRepository)(nil)
