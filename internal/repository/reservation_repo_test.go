package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^RES-\d{6}-\d{3}$`)

// flakyBackend fails writes while failSet is set.
type flakyBackend struct {
	*kvstore.MemoryBackend
	failSet error
}

func (b *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.failSet != nil {
		return b.failSet
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

type sequenceIDs struct {
	ids []string
}

func (s *sequenceIDs) NewID() string {
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id
}

func setup(t *testing.T, opts ...Option) (*KVReservationRepository, *flakyBackend) {
	t.Helper()
	backend := &flakyBackend{MemoryBackend: kvstore.NewMemoryBackend()}
	store := NewReservationStore(backend)
	return NewReservationRepository(store, opts...), backend
}

func samplePatch(first string) domain.Patch {
	return domain.Patch{
		Customer:  &domain.Customer{FirstName: first, LastName: "Doe", Phone: "555-0100"},
		Booking:   &domain.Booking{Hotel: "Palm", Room: "101", Pax: 2, Tour: domain.TourSunsetCruise, Date: "2024-05-01"},
		Financial: &domain.Financial{CostPrice: 40, SellingPrice: 100, AmountPaid: 50, Status: domain.PaymentStatusHalfPaid},
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)

	require.NoError(t, repo.Initialize(ctx))
	created, err := repo.Add(ctx, samplePatch("Ann"))
	require.NoError(t, err)

	require.NoError(t, repo.Initialize(ctx))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}

func TestInitialize_WritesEmptyCollection(t *testing.T) {
	ctx := context.Background()
	repo, backend := setup(t)

	require.NoError(t, repo.Initialize(ctx))

	raw, err := backend.Get(ctx, ReservationsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestGetAll_EmptyWhenNothingStored(t *testing.T) {
	repo, _ := setup(t)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGenerateID_Format(t *testing.T) {
	repo, _ := setup(t)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, idPattern, repo.GenerateID())
	}
}

func TestTimestampIDs_Deterministic(t *testing.T) {
	gen := TimestampIDs{
		Now:  func() time.Time { return time.UnixMilli(1710499123456) },
		Intn: func(int) int { return 7 },
	}
	assert.Equal(t, "RES-123456-007", gen.NewID())

	short := TimestampIDs{
		Now:  func() time.Time { return time.UnixMilli(42) },
		Intn: func(int) int { return 999 },
	}
	assert.Equal(t, "RES-000042-999", short.NewID())
}

func TestIDGeneratorFor(t *testing.T) {
	gen, err := IDGeneratorFor("uuid")
	require.NoError(t, err)
	assert.Regexp(t, `^RES-[0-9a-f-]{36}$`, gen.NewID())

	gen, err = IDGeneratorFor("timestamp")
	require.NoError(t, err)
	assert.Regexp(t, idPattern, gen.NewID())

	_, err = IDGeneratorFor("counter")
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 9, 30, 0, 123456789, time.UTC)
	repo, _ := setup(t, WithClock(func() time.Time { return now }))

	before, err := repo.GetAll(ctx)
	require.NoError(t, err)

	created, err := repo.Add(ctx, samplePatch("Ann"))
	require.NoError(t, err)

	assert.Regexp(t, idPattern, created.ID)
	assert.Equal(t, now.Truncate(time.Millisecond), created.CreatedAt)
	assert.Equal(t, "Ann", created.FirstName())

	after, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)

	found, ok, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created, found)
}

func TestAdd_IgnoresCallerIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t, WithIDGenerator(&sequenceIDs{ids: []string{"RES-000001-001"}}))

	forgedID := "RES-999999-999"
	forgedTime := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	patch := samplePatch("Ann")
	patch.ID = &forgedID
	patch.CreatedAt = &forgedTime

	created, err := repo.Add(ctx, patch)
	require.NoError(t, err)
	assert.Equal(t, "RES-000001-001", created.ID)
	assert.NotEqual(t, forgedTime, created.CreatedAt)
}

func TestAdd_AppendsInOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t, WithIDGenerator(&sequenceIDs{ids: []string{"RES-1", "RES-2", "RES-3"}}))

	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Add(ctx, samplePatch(name))
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"RES-1", "RES-2", "RES-3"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t, WithIDGenerator(&sequenceIDs{ids: []string{"RES-1", "RES-2", "RES-3"}}))
	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Add(ctx, samplePatch(name))
		require.NoError(t, err)
	}
	original, _, err := repo.GetByID(ctx, "RES-2")
	require.NoError(t, err)

	forgedID := "RES-forged"
	forgedTime := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, ok, err := repo.Update(ctx, "RES-2", domain.Patch{
		ID:        &forgedID,
		CreatedAt: &forgedTime,
		Customer:  &domain.Customer{FirstName: "Bea", LastName: "Roe", Phone: "555-0199"},
		Financial: &domain.Financial{CostPrice: 10, SellingPrice: 30, AmountPaid: 30, Status: domain.PaymentStatusFullyPaid},
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "RES-2", updated.ID)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Bea", updated.FirstName())
	assert.Equal(t, domain.PaymentStatusFullyPaid, updated.Status())
	assert.Equal(t, original.Booking, updated.Booking)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "RES-2", all[1].ID)
	assert.Equal(t, updated, all[1])
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, backend := setup(t)
	_, err := repo.Add(ctx, samplePatch("Ann"))
	require.NoError(t, err)
	before, err := repo.GetAll(ctx)
	require.NoError(t, err)

	// Any write attempt would fail the call.
	backend.failSet = errors.New("must not write")
	_, ok, err := repo.Update(ctx, "RES-missing", samplePatch("Zed"))
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t, WithIDGenerator(&sequenceIDs{ids: []string{"RES-1", "RES-2", "RES-3"}}))
	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Add(ctx, samplePatch(name))
		require.NoError(t, err)
	}

	require.NoError(t, repo.Delete(ctx, "RES-2"))

	_, ok, err := repo.GetByID(ctx, "RES-2")
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "RES-1", all[0].ID)
	assert.Equal(t, "RES-3", all[1].ID)
}

func TestDelete_Missing(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)
	_, err := repo.Add(ctx, samplePatch("Ann"))
	require.NoError(t, err)
	before, err := repo.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "RES-missing"))
	require.NoError(t, repo.Delete(ctx, "RES-missing"))

	after, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWriteFailures_LeaveStoreUntouched(t *testing.T) {
	ctx := context.Background()
	repo, backend := setup(t)
	existing, err := repo.Add(ctx, samplePatch("Ann"))
	require.NoError(t, err)
	before, err := repo.GetAll(ctx)
	require.NoError(t, err)

	quota := errors.New("quota exceeded")
	backend.failSet = quota

	_, err = repo.Add(ctx, samplePatch("Bob"))
	assert.ErrorIs(t, err, quota)

	_, ok, err := repo.Update(ctx, existing.ID, samplePatch("Cid"))
	assert.ErrorIs(t, err, quota)
	assert.False(t, ok)

	assert.ErrorIs(t, repo.Delete(ctx, existing.ID), quota)

	after, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGetAll_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)
	_, err := repo.Add(ctx, samplePatch("Ann"))
	require.NoError(t, err)

	first, err := repo.GetAll(ctx)
	require.NoError(t, err)
	second, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetAll_ToleratesMalformedRecords(t *testing.T) {
	ctx := context.Background()
	repo, backend := setup(t)
	raw := `[{"id":"RES-1","createdAt":"2024-03-15T00:00:00Z"},{"id":"RES-2","createdAt":"2024-03-16T00:00:00Z","financial":{"sellingPrice":"oops"}}]`
	require.NoError(t, backend.MemoryBackend.Set(ctx, ReservationsKey, []byte(raw)))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Nil(t, all[0].Financial)
	assert.Equal(t, 0.0, all[1].SellingPrice())
}

const legacyRecord = `{"id":"RES-000001-001","createdAt":"2024-03-15","notes":"vip","customer":{"firstName":"Old","lastName":"Timer","phone":"1"},"financial":{"sellingPrice":"n/a"}}`

func storedRecords(t *testing.T, backend *flakyBackend) []json.RawMessage {
	t.Helper()
	data, err := backend.Get(context.Background(), ReservationsKey)
	require.NoError(t, err)
	var records []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestWrites_KeepUntouchedRecordsVerbatim(t *testing.T) {
	ctx := context.Background()
	repo, backend := setup(t, WithIDGenerator(&sequenceIDs{ids: []string{"RES-2", "RES-3"}}))
	require.NoError(t, backend.MemoryBackend.Set(ctx, ReservationsKey, []byte("["+legacyRecord+"]")))

	_, err := repo.Add(ctx, samplePatch("B"))
	require.NoError(t, err)
	_, err = repo.Add(ctx, samplePatch("C"))
	require.NoError(t, err)
	_, ok, err := repo.Update(ctx, "RES-2", domain.Patch{Customer: &domain.Customer{FirstName: "Bea", LastName: "Roe", Phone: "2"}})
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, repo.Delete(ctx, "RES-3"))

	records := storedRecords(t, backend)
	require.Len(t, records, 2)
	assert.Equal(t, legacyRecord, string(records[0]))
}

func TestUpdate_KeepsStoredCreatedAtAndUnknownKeys(t *testing.T) {
	ctx := context.Background()
	repo, backend := setup(t)
	require.NoError(t, backend.MemoryBackend.Set(ctx, ReservationsKey, []byte("["+legacyRecord+"]")))

	updated, ok, err := repo.Update(ctx, "RES-000001-001", domain.Patch{
		Financial: &domain.Financial{CostPrice: 10, SellingPrice: 30, Status: domain.PaymentStatusNotPaid},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30.0, updated.SellingPrice())

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(storedRecords(t, backend)[0], &fields))
	assert.Equal(t, `"2024-03-15"`, string(fields["createdAt"]))
	assert.Equal(t, `"vip"`, string(fields["notes"]))
	assert.JSONEq(t, `{"firstName":"Old","lastName":"Timer","phone":"1"}`, string(fields["customer"]))
	assert.JSONEq(t, `{"costPrice":10,"sellingPrice":30,"amountPaid":0,"status":"NOT_PAID"}`, string(fields["financial"]))

	found, ok, err := repo.GetByID(ctx, "RES-000001-001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Old", found.FirstName())
	assert.Equal(t, 30.0, found.SellingPrice())
}
