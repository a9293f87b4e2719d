package tally

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/popcity/popcity/internal/game/veto"
)

func TestBuiltinPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		policy    Policy
		approvals int
		vetoes    int
		want      veto.Status
	}{
		{name: "first vote no votes", policy: FirstVote{}, want: veto.StatusPending},
		{name: "first vote approve", policy: FirstVote{}, approvals: 1, want: veto.StatusApproved},
		{name: "first vote veto", policy: FirstVote{}, vetoes: 1, want: veto.StatusRejected},
		{name: "majority waits", policy: Majority{MinVotes: 3}, approvals: 2, want: veto.StatusPending},
		{name: "majority approves", policy: Majority{MinVotes: 3}, approvals: 2, vetoes: 1, want: veto.StatusApproved},
		{name: "majority tie rejects", policy: Majority{MinVotes: 2}, approvals: 1, vetoes: 1, want: veto.StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.Decide(tt.approvals, tt.vetoes)
			if err != nil {
				t.Fatalf("Decide() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Decide(%d, %d) = %s, want %s", tt.approvals, tt.vetoes, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: "first-vote"},
		{name: "First-Vote", want: "first-vote"},
		{name: "majority", want: "majority(3)"},
		{name: "majority:5", want: "majority(5)"},
		{name: "majority:x", wantErr: true},
		{name: "lua", wantErr: true},
		{name: "dice", wantErr: true},
	}
	for _, tt := range tests {
		policy, err := Parse(tt.name, "")
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q) error = nil", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.name, err)
		}
		if policy.Name() != tt.want {
			t.Fatalf("Parse(%q) = %s, want %s", tt.name, policy.Name(), tt.want)
		}
	}
}

func TestLuaPolicy(t *testing.T) {
	t.Parallel()

	policy, err := LoadLua("two-approvals", `
function tally(approvals, vetoes)
  if vetoes >= 2 then return "rejected" end
  if approvals >= 2 then return "approved" end
  return "pending"
end`)
	if err != nil {
		t.Fatalf("LoadLua() error = %v", err)
	}
	cases := []struct {
		approvals, vetoes int
		want              veto.Status
	}{
		{0, 0, veto.StatusPending},
		{1, 1, veto.StatusPending},
		{2, 0, veto.StatusApproved},
		{1, 2, veto.StatusRejected},
	}
	for _, c := range cases {
		got, err := policy.Decide(c.approvals, c.vetoes)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if got != c.want {
			t.Fatalf("Decide(%d, %d) = %s, want %s", c.approvals, c.vetoes, got, c.want)
		}
	}
	if policy.Name() != "lua:two-approvals" {
		t.Fatalf("Name() = %s", policy.Name())
	}
}

func TestLuaPolicyRejectsBadScripts(t *testing.T) {
	t.Parallel()

	if _, err := LoadLua("empty", `x = 1`); err == nil {
		t.Fatal("LoadLua() without tally error = nil")
	}
	if _, err := LoadLua("syntax", `function tally(`); err == nil {
		t.Fatal("LoadLua() with syntax error = nil")
	}
	bad, err := LoadLua("bad-status", `function tally(a, v) return "maybe" end`)
	if err != nil {
		t.Fatalf("LoadLua() error = %v", err)
	}
	if _, err := bad.Decide(1, 0); err == nil {
		t.Fatal("Decide() with unknown status error = nil")
	}
}

func TestParseLoadsLuaFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "always.lua")
	if err := os.WriteFile(path, []byte(`function tally(a, v) return "approved" end`), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	policy, err := Parse("lua", path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if policy.Name() != "lua:always" {
		t.Fatalf("Name() = %s", policy.Name())
	}
	if got, _ := policy.Decide(0, 5); got != veto.StatusApproved {
		t.Fatalf("Decide() = %s", got)
	}
}
