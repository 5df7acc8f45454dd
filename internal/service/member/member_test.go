package member

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gymease-service/internal/domain/member"
	"gymease-service/internal/pkg/civil"
	"gymease-service/internal/pkg/clock"
	xerrors "gymease-service/internal/pkg/errors"

	"go.uber.org/zap"
)

var today = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

type memStore struct {
	mu      sync.Mutex
	nextID  int64
	members map[int64]member.Member
	history []member.MembershipHistory
}

func newMemStore() *memStore {
	return &memStore{members: map[int64]member.Member{}}
}

func (m *memStore) Create(_ context.Context, mb *member.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	mb.ID = m.nextID
	m.members[mb.ID] = *mb
	return nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (*member.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mb, ok := m.members[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &mb, nil
}

func (m *memStore) FindByUserID(_ context.Context, userID int64) (*member.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mb := range m.members {
		if mb.UserID != nil && *mb.UserID == userID {
			return &mb, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memStore) List(context.Context, member.ListFilters, int, int) ([]*member.Member, int, error) {
	return nil, 0, nil
}

func (m *memStore) Update(_ context.Context, mb *member.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[mb.ID]; !ok {
		return xerrors.ErrNotFound
	}
	m.members[mb.ID] = *mb
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(m.members, id)
	return nil
}

func (m *memStore) Stats(context.Context) (*member.Stats, error) {
	return &member.Stats{}, nil
}

func (m *memStore) History(_ context.Context, memberID int64) ([]*member.MembershipHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*member.MembershipHistory
	for _, h := range m.history {
		if h.MemberID == memberID {
			out = append(out, &h)
		}
	}
	return out, nil
}

// ActiveMembership mirrors the repository query: an active period covering
// day, the one ending last wins.
func (m *memStore) ActiveMembership(_ context.Context, memberID int64, day civil.Date) (*member.MembershipHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *member.MembershipHistory
	for _, h := range m.history {
		if h.MemberID != memberID || !h.IsActive || h.StartDate.After(day.Time) || h.EndDate.Before(day.Time) {
			continue
		}
		if best == nil || h.EndDate.After(best.EndDate.Time) {
			best = &h
		}
	}
	if best == nil {
		return nil, xerrors.ErrNotFound
	}
	return best, nil
}

func newService() (*MemberService, *memStore) {
	store := newMemStore()
	return NewMemberService(store, clock.Fixed(today), zap.NewNop()), store
}

func validRequest() member.CreateMemberRequest {
	return member.CreateMemberRequest{
		Name: "Budi", Address: "Jl. Merdeka 1", BirthPlace: "Bandung",
		BirthDay: 17, BirthMonth: 8, BirthYear: 1995, Phone: "08123456789",
	}
}

func TestCreateMember(t *testing.T) {
	t.Parallel()

	s, store := newService()
	req := validRequest()
	m, err := s.CreateMember(context.Background(), &req)
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if !strings.HasPrefix(m.Code, "MBR") || len(m.Code) != 9 {
		t.Errorf("code = %q, want MBR + 6 hex", m.Code)
	}
	if !m.IsActive {
		t.Error("new member should default to active")
	}
	if _, ok := store.members[m.ID]; !ok {
		t.Error("member not stored")
	}
}

func TestCreateMemberBirthDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		day       int
		month     int
		year      int
		wantField string
	}{
		{name: "regular", day: 17, month: 8, year: 1995},
		{name: "leap day", day: 29, month: 2, year: 2024},
		{name: "born today", day: 15, month: 10, year: 2026},
		{name: "february 30", day: 30, month: 2, year: 1990, wantField: "tanggal_lahir"},
		{name: "leap day in common year", day: 29, month: 2, year: 2025, wantField: "tanggal_lahir"},
		{name: "april 31", day: 31, month: 4, year: 2000, wantField: "tanggal_lahir"},
		{name: "tomorrow", day: 16, month: 10, year: 2026, wantField: "tahun_lahir"},
		{name: "next year", day: 1, month: 1, year: 2027, wantField: "tahun_lahir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newService()
			req := validRequest()
			req.BirthDay, req.BirthMonth, req.BirthYear = tt.day, tt.month, tt.year

			_, err := s.CreateMember(context.Background(), &req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("CreateMember: %v", err)
				}
				return
			}

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

func TestUpdateMember(t *testing.T) {
	t.Parallel()

	s, _ := newService()
	req := validRequest()
	m, err := s.CreateMember(context.Background(), &req)
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	name, inactive := "Budi Santoso", false
	updated, err := s.UpdateMember(context.Background(), m.ID, &member.UpdateMemberRequest{Name: &name, IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if updated.Name != name || updated.IsActive || updated.Address != req.Address {
		t.Fatalf("updated = %+v", updated)
	}

	// August 17 becomes February 17, then February 31 must be rejected.
	feb, day := 2, 31
	if _, err := s.UpdateMember(context.Background(), m.ID, &member.UpdateMemberRequest{BirthMonth: &feb, BirthDay: &day}); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}

	if _, err := s.UpdateMember(context.Background(), 999, &member.UpdateMemberRequest{}); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestMembershipStatus(t *testing.T) {
	t.Parallel()

	d := civil.NewDate
	period := func(id int64, start, end civil.Date, active bool) member.MembershipHistory {
		return member.MembershipHistory{ID: id, MemberID: 1, TransactionID: id, StartDate: start, EndDate: end, IsActive: active}
	}

	tests := []struct {
		name    string
		history []member.MembershipHistory
		want    string
		wantID  int64
	}{
		{name: "no history", want: "inactive"},
		{name: "ended yesterday", history: []member.MembershipHistory{period(1, d(2026, 9, 14), d(2026, 10, 14), true)}, want: "inactive"},
		{name: "ends today", history: []member.MembershipHistory{period(2, d(2026, 9, 15), d(2026, 10, 15), true)}, want: "active", wantID: 2},
		{name: "starts today", history: []member.MembershipHistory{period(3, d(2026, 10, 15), d(2026, 11, 14), true)}, want: "active", wantID: 3},
		{name: "starts tomorrow", history: []member.MembershipHistory{period(4, d(2026, 10, 16), d(2026, 11, 15), true)}, want: "inactive"},
		{name: "deactivated period", history: []member.MembershipHistory{period(5, d(2026, 10, 1), d(2026, 10, 31), false)}, want: "inactive"},
		{
			name: "overlapping periods pick the later end",
			history: []member.MembershipHistory{
				period(6, d(2026, 10, 1), d(2026, 10, 31), true),
				period(7, d(2026, 10, 10), d(2026, 12, 31), true),
			},
			want: "active", wantID: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, store := newService()
			req := validRequest()
			if _, err := s.CreateMember(context.Background(), &req); err != nil {
				t.Fatalf("CreateMember: %v", err)
			}
			store.history = tt.history

			got, err := s.MembershipStatus(context.Background(), 1)
			if err != nil {
				t.Fatalf("MembershipStatus: %v", err)
			}
			if got.Status != tt.want {
				t.Fatalf("status = %q, want %q", got.Status, tt.want)
			}
			if tt.wantID == 0 {
				if got.Membership != nil {
					t.Fatalf("membership = %+v, want none", got.Membership)
				}
				return
			}
			if got.Membership == nil || got.Membership.ID != tt.wantID {
				t.Fatalf("membership = %+v, want id %d", got.Membership, tt.wantID)
			}
		})
	}
}

func TestMembershipStatusUnknownMember(t *testing.T) {
	t.Parallel()

	s, _ := newService()
	if _, err := s.MembershipStatus(context.Background(), 42); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := s.History(context.Background(), 42); !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("History err = %v, want not found", err)
	}
}
