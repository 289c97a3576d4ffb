package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestSwitchboardAddPhone(t *testing.T) {
	t.Run("adds new phone", func(t *testing.T) {
		sb := NewSwitchboard(410)

		phone, err := sb.AddPhone(1231111)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if phone.Number != 1231111 || phone.AreaCode != 410 {
			t.Errorf("expected phone 410-1231111, got %s", phone.ID())
		}
		if phone.IsConnected() {
			t.Error("expected new phone to be idle")
		}
	})

	t.Run("rejects duplicate number", func(t *testing.T) {
		sb := NewSwitchboard(410)
		if _, err := sb.AddPhone(1231111); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := sb.AddPhone(1231111)
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
		if got := len(sb.PhoneNumbers()); got != 1 {
			t.Errorf("expected 1 phone after duplicate add, got %d", got)
		}
	})

	t.Run("phone numbers are sorted", func(t *testing.T) {
		sb := NewSwitchboard(410)
		for _, n := range []int{3, 1, 2} {
			if _, err := sb.AddPhone(n); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if got := sb.PhoneNumbers(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
			t.Errorf("expected [1 2 3], got %v", got)
		}
	})
}

func TestSwitchboardAddTrunk(t *testing.T) {
	t.Run("adds one direction only", func(t *testing.T) {
		sb := NewSwitchboard(410)
		if err := sb.AddTrunk(510); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !sb.HasTrunk(510) {
			t.Error("expected trunk to 510")
		}
		if got := sb.Trunks(); !reflect.DeepEqual(got, []int{510}) {
			t.Errorf("expected [510], got %v", got)
		}
	})

	t.Run("rejects self trunk", func(t *testing.T) {
		sb := NewSwitchboard(410)
		err := sb.AddTrunk(410)
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("expected ErrInvalidOperation, got %v", err)
		}
		if len(sb.Trunks()) != 0 {
			t.Error("expected no trunks after self trunk")
		}
	})

	t.Run("rejects duplicate trunk", func(t *testing.T) {
		sb := NewSwitchboard(410)
		_ = sb.AddTrunk(510)
		err := sb.AddTrunk(510)
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestSwitchboardSnapshotsAreCopies(t *testing.T) {
	a := NewSwitchboard(410)
	b := NewSwitchboard(510)
	_, _ = a.AddPhone(1)
	_, _ = b.AddPhone(2)

	before, _ := a.Phone(1)
	if err := Connect(a, 1, b, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if before.IsConnected() {
		t.Error("expected earlier copy to stay idle")
	}
	after, _ := a.Phone(1)
	if !after.IsConnected() {
		t.Error("expected fresh copy to be connected")
	}
}

func TestSwitchboardStatus(t *testing.T) {
	a := NewSwitchboard(410)
	b := NewSwitchboard(610)
	_ = a.AddTrunk(610)
	_, _ = a.AddPhone(1231111)
	_, _ = a.AddPhone(1232222)
	_, _ = b.AddPhone(1233333)
	if err := Connect(a, 1231111, b, 1233333); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := a.Status()
	if st.AreaCode != 410 {
		t.Errorf("expected area code 410, got %d", st.AreaCode)
	}
	if !reflect.DeepEqual(st.Trunks, []int{610}) {
		t.Errorf("expected trunks [610], got %v", st.Trunks)
	}
	if len(st.Phones) != 2 {
		t.Fatalf("expected 2 phones, got %d", len(st.Phones))
	}
	if st.Phones[0].Peer == nil || st.Phones[0].Peer.String() != "610-1233333" {
		t.Errorf("expected 1231111 connected to 610-1233333, got %v", st.Phones[0].Peer)
	}
	if st.Phones[1].Peer != nil {
		t.Errorf("expected 1232222 idle, got %v", st.Phones[1].Peer)
	}
}
