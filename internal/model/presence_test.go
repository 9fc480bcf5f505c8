package model

import (
	"testing"
	"time"
)

func TestHostIdentityValidate(t *testing.T) {
	valid := HostIdentity{Host: "bjorn.home", Timeout: 5 * time.Second, PollInterval: 2 * time.Second}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid identity, got %v", err)
	}

	cases := []struct {
		name     string
		identity HostIdentity
	}{
		{"empty host", HostIdentity{Timeout: time.Second, PollInterval: time.Second}},
		{"whitespace host", HostIdentity{Host: "  ", Timeout: time.Second, PollInterval: time.Second}},
		{"scheme in host", HostIdentity{Host: "http://bjorn.home", Timeout: time.Second, PollInterval: time.Second}},
		{"zero timeout", HostIdentity{Host: "bjorn.home", PollInterval: time.Second}},
		{"zero interval", HostIdentity{Host: "bjorn.home", Timeout: time.Second}},
	}
	for _, tc := range cases {
		if err := tc.identity.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestTransitionNotifiable(t *testing.T) {
	cases := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseSearching, PhaseFound, true},
		{PhaseFound, PhaseLost, true},
		{PhaseUnknown, PhaseFound, false},
		{PhaseUnknown, PhaseSearching, false},
		{PhaseSearching, PhaseSearching, false},
	}
	for _, tc := range cases {
		got := Transition{From: tc.from, To: tc.to}.Notifiable()
		if got != tc.want {
			t.Fatalf("%s->%s: expected notifiable=%v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestRunStateString(t *testing.T) {
	cases := map[RunState]string{
		RunCreated:  "created",
		RunRunning:  "running",
		RunStopping: "stopping",
		RunStopped:  "stopped",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
