// Package tally decides when a veto request leaves pending. The policy is
// pluggable per gateway deployment.
package tally

import (
	"fmt"
	"strings"

	"github.com/popcity/popcity/internal/game/veto"
)

// Policy resolves a request's status from its vote counts.
type Policy interface {
	Name() string
	Decide(approvals, vetoes int) (veto.Status, error)
}

// FirstVote resolves on the first vote: any veto rejects, otherwise any
// approval approves.
type FirstVote struct{}

func (FirstVote) Name() string { return "first-vote" }

func (FirstVote) Decide(approvals, vetoes int) (veto.Status, error) {
	switch {
	case vetoes > 0:
		return veto.StatusRejected, nil
	case approvals > 0:
		return veto.StatusApproved, nil
	default:
		return veto.StatusPending, nil
	}
}

// Majority waits for MinVotes votes and then approves when approvals
// outnumber vetoes. Ties reject.
type Majority struct {
	MinVotes int
}

func (m Majority) Name() string { return fmt.Sprintf("majority(%d)", max(m.MinVotes, 1)) }

func (m Majority) Decide(approvals, vetoes int) (veto.Status, error) {
	if approvals+vetoes < max(m.MinVotes, 1) {
		return veto.StatusPending, nil
	}
	if approvals > vetoes {
		return veto.StatusApproved, nil
	}
	return veto.StatusRejected, nil
}

// Parse builds a policy from its configured name: "first-vote" (or blank),
// "majority" or "majority:N", and "lua" which loads script.
func Parse(name, script string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "" || name == "first-vote":
		return FirstVote{}, nil
	case name == "majority":
		return Majority{MinVotes: 3}, nil
	case strings.HasPrefix(name, "majority:"):
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(name, "majority:"), "%d", &n); err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid majority vote count in %q", name)
		}
		return Majority{MinVotes: n}, nil
	case name == "lua":
		if strings.TrimSpace(script) == "" {
			return nil, fmt.Errorf("lua tally policy requires a script")
		}
		return LoadLuaFile(script)
	default:
		return nil, fmt.Errorf("unknown tally policy %q", name)
	}
}

func parseStatus(raw string) (veto.Status, error) {
	switch s := veto.Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case veto.StatusPending, veto.StatusApproved, veto.StatusRejected:
		return s, nil
	default:
		return "", fmt.Errorf("tally returned unknown status %q", raw)
	}
}
