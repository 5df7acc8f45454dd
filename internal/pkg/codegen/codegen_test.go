package codegen

import (
	"errors"
	"regexp"
	"testing"

	xerrors "gymease-service/internal/pkg/errors"
)

func TestNewFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		n      int
		re     string
	}{
		{PrefixMember, 6, `^MBR[0-9A-F]{6}$`},
		{PrefixPromo, 6, `^PROMO[0-9A-F]{6}$`},
		{PrefixTrainer, 6, `^PT[0-9A-F]{6}$`},
		{PrefixTransaction, 8, `^TRX[0-9A-F]{8}$`},
	}

	for _, tt := range tests {
		code := New(tt.prefix, tt.n)
		if !regexp.MustCompile(tt.re).MatchString(code) {
			t.Errorf("New(%q, %d) = %q, want match %s", tt.prefix, tt.n, code, tt.re)
		}
	}
}

func TestInsertRetriesOnConflict(t *testing.T) {
	t.Parallel()

	calls := 0
	code, err := Insert(PrefixPromo, 6, func(string) error {
		calls++
		if calls < 3 {
			return xerrors.ErrConflict
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(code) != len(PrefixPromo)+6 {
		t.Fatalf("code = %q", code)
	}
}

func TestInsertStopsOnOtherErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	_, err := Insert(PrefixMember, 6, func(string) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestInsertGivesUp(t *testing.T) {
	t.Parallel()

	_, err := Insert(PrefixTrainer, 6, func(string) error { return xerrors.ErrConflict })
	if !errors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}
