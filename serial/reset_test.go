package serial

import (
	"errors"
	"testing"
	"time"
)

type recordingControl struct {
	calls  []string
	failOn string
}

func (r *recordingControl) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return errors.New("ioctl failed")
	}
	return nil
}

func (r *recordingControl) SetRTS(state bool) error {
	if state {
		return r.record("RTS=1")
	}
	return r.record("RTS=0")
}

func (r *recordingControl) SetDTR(state bool) error {
	if state {
		return r.record("DTR=1")
	}
	return r.record("DTR=0")
}

func TestHardResetSequence(t *testing.T) {
	ctrl := &recordingControl{}

	if err := HardReset(ctrl, time.Millisecond); err != nil {
		t.Fatalf("HardReset failed: %v", err)
	}

	want := []string{"DTR=0", "RTS=1", "RTS=0"}
	if len(ctrl.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", ctrl.calls, want)
	}
	for i := range want {
		if ctrl.calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, ctrl.calls[i], want[i])
		}
	}
}

func TestHardResetStopsOnError(t *testing.T) {
	ctrl := &recordingControl{failOn: "RTS=1"}

	if err := HardReset(ctrl, time.Millisecond); err == nil {
		t.Fatal("expected error when RTS cannot be asserted")
	}
	if len(ctrl.calls) != 2 {
		t.Errorf("expected sequence to stop after failing call, got %v", ctrl.calls)
	}
}
