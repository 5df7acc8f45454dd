package promo

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"gymease-service/internal/domain/product"
	"gymease-service/internal/domain/promo"
	"gymease-service/internal/pkg/civil"
	"gymease-service/internal/pkg/clock"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	promos map[int64]promo.Promo
	codes  map[string]bool
}

func newMemStore() *memStore {
	return &memStore{promos: map[int64]promo.Promo{}, codes: map[string]bool{}}
}

func (m *memStore) Create(_ context.Context, p *promo.Promo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes[p.Code] {
		return xerrors.ErrConflict
	}
	m.nextID++
	p.ID = m.nextID
	m.codes[p.Code] = true
	m.promos[p.ID] = *p
	return nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (*promo.Promo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promos[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) List(_ context.Context) ([]promo.Promo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]promo.Promo, 0, len(m.promos))
	for _, p := range m.promos {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b promo.Promo) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m *memStore) Update(_ context.Context, p *promo.Promo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[p.ID]; !ok {
		return xerrors.ErrNotFound
	}
	m.promos[p.ID] = *p
	return nil
}

func (m *memStore) SetActive(_ context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promos[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	p.IsActive = active
	m.promos[id] = p
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m.promos, id)
	return nil
}

type packages map[int64]*product.Package

func (p packages) FindByID(_ context.Context, id int64) (*product.Package, error) {
	pkg, ok := p[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return pkg, nil
}

var today = time.Date(2026, 10, 15, 9, 0, 0, 0, time.FixedZone("WIB", 7*3600))

func newService(t *testing.T) (*PromoService, *memStore) {
	t.Helper()
	store := newMemStore()
	pkgs := packages{
		1: {ID: 1, Name: "Gold Monthly", Price: decimal.NewFromInt(200000), DurationDays: 30},
		2: {ID: 2, Name: "Silver", Price: decimal.NewFromInt(99999), DurationDays: 30},
	}
	return NewPromoService(store, pkgs, clock.Fixed(today), zap.NewNop()), store
}

func date(y int, m time.Month, d int) *civil.Date {
	v := civil.NewDate(y, m, d)
	return &v
}

func mustCreate(t *testing.T, s *PromoService, req promo.CreatePromoRequest) *promo.View {
	t.Helper()
	v, err := s.CreatePromo(context.Background(), &req)
	if err != nil {
		t.Fatalf("CreatePromo(%s): %v", req.Name, err)
	}
	return v
}

func TestCreatePromo(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)

	v := mustCreate(t, s, promo.CreatePromoRequest{
		Name:            "Summer Deal",
		DiscountPercent: decimal.NewFromInt(25),
		PackageID:       1,
		StartDate:       date(2026, 10, 1),
		EndDate:         date(2026, 10, 15),
	})

	if !strings.HasPrefix(v.Code, "PROMO") || len(v.Code) != 11 {
		t.Errorf("code = %q, want PROMO + 6 hex", v.Code)
	}
	if !v.IsActive {
		t.Error("new promo should default to active")
	}
	if v.Status != promo.StatusActive {
		t.Errorf("status = %s, want active on the last day", v.Status)
	}
	if v.PackageName() != "Gold Monthly" {
		t.Errorf("package name = %q", v.PackageName())
	}
}

func TestCreatePromoValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   promo.CreatePromoRequest
		field string
	}{
		{
			name:  "percent above 100",
			req:   promo.CreatePromoRequest{Name: "x", DiscountPercent: decimal.NewFromInt(101), PackageID: 1},
			field: "diskon_persen",
		},
		{
			name:  "negative percent",
			req:   promo.CreatePromoRequest{Name: "x", DiscountPercent: decimal.NewFromInt(-1), PackageID: 1},
			field: "diskon_persen",
		},
		{
			name: "end before start",
			req: promo.CreatePromoRequest{
				Name: "x", DiscountPercent: decimal.NewFromInt(10), PackageID: 1,
				StartDate: date(2026, 10, 10), EndDate: date(2026, 10, 9),
			},
			field: "tanggal_berakhir",
		},
		{
			name:  "unknown package",
			req:   promo.CreatePromoRequest{Name: "x", DiscountPercent: decimal.NewFromInt(10), PackageID: 99},
			field: "paket",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newService(t)

			_, err := s.CreatePromo(context.Background(), &tc.req)
			var fields xerrors.FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("err = %v, want field errors", err)
			}
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("fields = %v, want %s", fields, tc.field)
			}
			if !errors.Is(err, xerrors.ErrInvalidInput) {
				t.Fatal("field errors should match ErrInvalidInput")
			}
		})
	}
}

func TestCreatePromoBoundaryPercents(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)

	for _, pct := range []int64{0, 100} {
		mustCreate(t, s, promo.CreatePromoRequest{Name: "edge", DiscountPercent: decimal.NewFromInt(pct), PackageID: 1})
	}
}

func TestListPromosFiltersByStatusAndSearch(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	inactive := false

	mustCreate(t, s, promo.CreatePromoRequest{Name: "Summer Deal", DiscountPercent: decimal.NewFromInt(25), PackageID: 1})
	mustCreate(t, s, promo.CreatePromoRequest{Name: "Old Deal", DiscountPercent: decimal.NewFromInt(10), PackageID: 2, EndDate: date(2026, 10, 14)})
	mustCreate(t, s, promo.CreatePromoRequest{Name: "Next Month", DiscountPercent: decimal.NewFromInt(15), PackageID: 1, StartDate: date(2026, 11, 1)})
	mustCreate(t, s, promo.CreatePromoRequest{Name: "Paused Summer", DiscountPercent: decimal.NewFromInt(5), PackageID: 2, IsActive: &inactive})

	tests := []struct {
		filter promo.ListFilters
		want   []string
	}{
		{promo.ListFilters{}, []string{"Summer Deal", "Old Deal", "Next Month", "Paused Summer"}},
		{promo.ListFilters{Status: "active"}, []string{"Summer Deal"}},
		{promo.ListFilters{Status: "expired"}, []string{"Old Deal"}},
		{promo.ListFilters{Status: "scheduled"}, []string{"Next Month"}},
		{promo.ListFilters{Search: "summer"}, []string{"Summer Deal", "Paused Summer"}},
		{promo.ListFilters{Search: "silver"}, []string{"Old Deal", "Paused Summer"}},
		{promo.ListFilters{Search: "summer", Status: "inactive"}, []string{"Paused Summer"}},
	}

	for _, tc := range tests {
		got, err := s.ListPromos(context.Background(), tc.filter)
		if err != nil {
			t.Fatalf("ListPromos(%+v): %v", tc.filter, err)
		}
		names := make([]string, len(got))
		for i, v := range got {
			names[i] = v.Name
		}
		if !slices.Equal(names, tc.want) {
			t.Errorf("ListPromos(%+v) = %v, want %v", tc.filter, names, tc.want)
		}
	}
}

func TestListPromosRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)

	_, err := s.ListPromos(context.Background(), promo.ListFilters{Status: "archived"})
	var fields xerrors.FieldErrors
	if !errors.As(err, &fields) || fields["status"] == nil {
		t.Fatalf("err = %v, want status field error", err)
	}
}

func TestStatisticsAndActivePromos(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	inactive := false

	mustCreate(t, s, promo.CreatePromoRequest{Name: "A", DiscountPercent: decimal.NewFromInt(25), PackageID: 1})
	mustCreate(t, s, promo.CreatePromoRequest{Name: "B", DiscountPercent: decimal.NewFromInt(25), PackageID: 1, EndDate: date(2026, 1, 1)})
	mustCreate(t, s, promo.CreatePromoRequest{Name: "C", DiscountPercent: decimal.NewFromInt(25), PackageID: 1, IsActive: &inactive})

	stats, err := s.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	want := promo.Stats{Total: 3, Active: 1, Expired: 1, Inactive: 1}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}

	active, err := s.ActivePromos(context.Background())
	if err != nil {
		t.Fatalf("ActivePromos: %v", err)
	}
	if len(active) != 1 || active[0].Name != "A" {
		t.Fatalf("active = %+v", active)
	}
}

func TestTogglePromo(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	v := mustCreate(t, s, promo.CreatePromoRequest{Name: "A", DiscountPercent: decimal.NewFromInt(25), PackageID: 1})

	off, err := s.TogglePromo(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("TogglePromo: %v", err)
	}
	if off.IsActive || off.Status != promo.StatusInactive {
		t.Fatalf("after first toggle: active=%v status=%s", off.IsActive, off.Status)
	}

	on, err := s.TogglePromo(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("TogglePromo: %v", err)
	}
	if !on.IsActive || on.Status != promo.StatusActive {
		t.Fatalf("after second toggle: active=%v status=%s", on.IsActive, on.Status)
	}
}

func TestUpdatePromoClearsOneBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       promo.UpdatePromoRequest
		wantStart *civil.Date
		wantEnd   *civil.Date
	}{
		{name: "start only", req: promo.UpdatePromoRequest{ClearStart: true}, wantEnd: date(2026, 10, 31)},
		{name: "end only", req: promo.UpdatePromoRequest{ClearEnd: true}, wantStart: date(2026, 10, 1)},
		{name: "both", req: promo.UpdatePromoRequest{ClearDates: true}},
		{name: "clear then set", req: promo.UpdatePromoRequest{ClearEnd: true, EndDate: date(2026, 12, 31)}, wantStart: date(2026, 10, 1), wantEnd: date(2026, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newService(t)
			v := mustCreate(t, s, promo.CreatePromoRequest{
				Name: "A", DiscountPercent: decimal.NewFromInt(25), PackageID: 1,
				StartDate: date(2026, 10, 1), EndDate: date(2026, 10, 31),
			})

			req := tt.req
			updated, err := s.UpdatePromo(context.Background(), v.ID, &req)
			if err != nil {
				t.Fatalf("UpdatePromo: %v", err)
			}
			if !sameDate(updated.StartDate, tt.wantStart) {
				t.Errorf("start = %v, want %v", updated.StartDate, tt.wantStart)
			}
			if !sameDate(updated.EndDate, tt.wantEnd) {
				t.Errorf("end = %v, want %v", updated.EndDate, tt.wantEnd)
			}
		})
	}
}

func sameDate(a, b *civil.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestUpdatePromo(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	v := mustCreate(t, s, promo.CreatePromoRequest{
		Name: "A", DiscountPercent: decimal.NewFromInt(25), PackageID: 1,
		StartDate: date(2026, 10, 1), EndDate: date(2026, 10, 31),
	})

	pct := decimal.NewFromInt(40)
	updated, err := s.UpdatePromo(context.Background(), v.ID, &promo.UpdatePromoRequest{DiscountPercent: &pct, ClearDates: true})
	if err != nil {
		t.Fatalf("UpdatePromo: %v", err)
	}
	if !updated.DiscountPercent.Equal(pct) || updated.StartDate != nil || updated.EndDate != nil {
		t.Fatalf("updated = %+v", updated.Promo)
	}

	bad := decimal.NewFromInt(150)
	if _, err := s.UpdatePromo(context.Background(), v.ID, &promo.UpdatePromoRequest{DiscountPercent: &bad}); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}

	if _, err := s.UpdatePromo(context.Background(), 999, &promo.UpdatePromoRequest{}); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	v := mustCreate(t, s, promo.CreatePromoRequest{Name: "Odd", DiscountPercent: decimal.RequireFromString("12.5"), PackageID: 2})

	p, err := s.Preview(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !p.Savings.Equal(decimal.NewFromInt(12500)) || !p.FinalPrice.Equal(decimal.NewFromInt(87499)) {
		t.Fatalf("preview = savings %s final %s, want 12500 / 87499", p.Savings, p.FinalPrice)
	}
	if p.Status != promo.StatusActive {
		t.Fatalf("status = %s", p.Status)
	}
}

func TestApplicablePromo(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	inactive := false
	active := mustCreate(t, s, promo.CreatePromoRequest{Name: "A", DiscountPercent: decimal.NewFromInt(25), PackageID: 1})
	paused := mustCreate(t, s, promo.CreatePromoRequest{Name: "B", DiscountPercent: decimal.NewFromInt(25), PackageID: 1, IsActive: &inactive})

	if _, err := s.ApplicablePromo(context.Background(), active.ID, 1); err != nil {
		t.Fatalf("ApplicablePromo: %v", err)
	}

	tests := []struct {
		name      string
		id, pkgID int64
	}{
		{"wrong package", active.ID, 2},
		{"inactive", paused.ID, 1},
		{"missing", 999, 1},
	}
	for _, tc := range tests {
		_, err := s.ApplicablePromo(context.Background(), tc.id, tc.pkgID)
		var fields xerrors.FieldErrors
		if !errors.As(err, &fields) || fields["promo"] == nil {
			t.Errorf("%s: err = %v, want promo field error", tc.name, err)
		}
	}
}

func TestDeletePromo(t *testing.T) {
	t.Parallel()
	s, _ := newService(t)
	v := mustCreate(t, s, promo.CreatePromoRequest{Name: "A", DiscountPercent: decimal.NewFromInt(25), PackageID: 1})

	if err := s.DeletePromo(context.Background(), v.ID); err != nil {
		t.Fatalf("DeletePromo: %v", err)
	}
	if _, err := s.GetPromo(context.Background(), v.ID); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
