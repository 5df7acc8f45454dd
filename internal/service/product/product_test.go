package product

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"gymease-service/internal/domain/product"
	xerrors "gymease-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type memStore struct {
	mu       sync.Mutex
	nextID   int64
	packages map[int64]product.Package
}

func newMemStore() *memStore {
	return &memStore{packages: map[int64]product.Package{}}
}

func (m *memStore) Create(_ context.Context, p *product.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.packages[p.ID] = *p
	return nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (*product.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packages[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) List(_ context.Context, activeOnly bool) ([]*product.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*product.Package
	for _, p := range m.packages {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, &p)
	}
	slices.SortFunc(out, func(a, b *product.Package) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m *memStore) Update(_ context.Context, p *product.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.packages[p.ID]; !ok {
		return xerrors.ErrNotFound
	}
	m.packages[p.ID] = *p
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.packages[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m.packages, id)
	return nil
}

func newService() *ProductService {
	return NewProductService(newMemStore(), zap.NewNop())
}

func mustCreate(t *testing.T, s *ProductService, req product.CreatePackageRequest) *product.Package {
	t.Helper()
	p, err := s.CreatePackage(context.Background(), &req)
	if err != nil {
		t.Fatalf("CreatePackage(%s): %v", req.Name, err)
	}
	return p
}

func TestCreatePackage(t *testing.T) {
	t.Parallel()

	s := newService()
	p := mustCreate(t, s, product.CreatePackageRequest{
		Name: "Gold", Price: decimal.NewFromInt(300000), DurationDays: 30,
		Features: []string{"Gym access", "Sauna", "Locker"},
	})

	if !p.IsActive {
		t.Error("new package should default to active")
	}
	if want := []string{"Gym access", "Sauna", "Locker"}; !slices.Equal([]string(p.Features), want) {
		t.Errorf("features = %v, want %v (order kept)", p.Features, want)
	}
}

func TestCreatePackageValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		price     decimal.Decimal
		days      int
		wantField string
	}{
		{"zero price", decimal.Zero, 30, "harga"},
		{"negative price", decimal.NewFromInt(-5), 30, "harga"},
		{"fractional price", decimal.RequireFromString("1500.50"), 30, "harga"},
		{"zero duration", decimal.NewFromInt(1000), 0, "durasi_hari"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newService()
			_, err := s.CreatePackage(context.Background(), &product.CreatePackageRequest{Name: "X", Price: tt.price, DurationDays: tt.days})

			var fields xerrors.FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("err = %v, want field errors", err)
			}
			if _, ok := fields[tt.wantField]; !ok {
				t.Fatalf("fields = %v, want %s", fields, tt.wantField)
			}
		})
	}
}

func TestListPackages(t *testing.T) {
	t.Parallel()

	s := newService()
	inactive := false
	gold := mustCreate(t, s, product.CreatePackageRequest{Name: "Gold", Price: decimal.NewFromInt(300000), DurationDays: 30})
	retired := mustCreate(t, s, product.CreatePackageRequest{Name: "Retired", Price: decimal.NewFromInt(100000), DurationDays: 30, IsActive: &inactive})
	silver := mustCreate(t, s, product.CreatePackageRequest{Name: "Silver", Price: decimal.NewFromInt(200000), DurationDays: 30})

	tests := []struct {
		name            string
		includeInactive bool
		want            []int64
	}{
		{"active only", false, []int64{gold.ID, silver.ID}},
		{"include inactive", true, []int64{gold.ID, retired.ID, silver.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.ListPackages(context.Background(), tt.includeInactive)
			if err != nil {
				t.Fatalf("ListPackages: %v", err)
			}
			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if !slices.Equal(ids, tt.want) {
				t.Fatalf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestUpdatePackage(t *testing.T) {
	t.Parallel()

	s := newService()
	p := mustCreate(t, s, product.CreatePackageRequest{Name: "Gold", Price: decimal.NewFromInt(300000), DurationDays: 30, Features: []string{"Gym"}})

	price, off := decimal.NewFromInt(275000), false
	updated, err := s.UpdatePackage(context.Background(), p.ID, &product.UpdatePackageRequest{Price: &price, IsActive: &off})
	if err != nil {
		t.Fatalf("UpdatePackage: %v", err)
	}
	if !updated.Price.Equal(price) || updated.IsActive || updated.Name != "Gold" || len(updated.Features) != 1 {
		t.Fatalf("updated = %+v", updated)
	}

	zero := 0
	if _, err := s.UpdatePackage(context.Background(), p.ID, &product.UpdatePackageRequest{DurationDays: &zero}); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}

	if _, err := s.UpdatePackage(context.Background(), 999, &product.UpdatePackageRequest{}); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if err := s.DeletePackage(context.Background(), 999); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("delete err = %v, want not found", err)
	}
}
