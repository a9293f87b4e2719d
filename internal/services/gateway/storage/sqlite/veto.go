package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/popcity/popcity/internal/services/gateway/storage"
)

const vetoColumns = `id, requester_id, requester_name, item, amount, reason, status, created_at`

func scanVetoRequest(row rowScanner) (storage.VetoRequest, error) {
	var (
		r         storage.VetoRequest
		createdAt int64
	)
	if err := row.Scan(&r.ID, &r.RequesterID, &r.RequesterName, &r.Item, &r.Amount,
		&r.Reason, &r.Status, &createdAt); err != nil {
		return storage.VetoRequest{}, err
	}
	r.CreatedAt = fromMillis(createdAt)
	return r, nil
}

// attachVotes loads the votes of every request, oldest vote first.
func attachVotes(ctx context.Context, q queryer, requests []storage.VetoRequest) error {
	if len(requests) == 0 {
		return nil
	}
	index := make(map[string]int, len(requests))
	args := make([]any, 0, len(requests))
	for i, r := range requests {
		index[r.ID] = i
		args = append(args, r.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")
	rows, err := q.QueryContext(ctx,
		`SELECT request_id, user_id, vote, created_at FROM veto_votes
		  WHERE request_id IN (`+placeholders+`)
		  ORDER BY created_at ASC, user_id ASC`, args...)
	if err != nil {
		return fmt.Errorf("list veto votes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			requestID string
			vote      storage.VetoVote
			createdAt int64
		)
		if err := rows.Scan(&requestID, &vote.UserID, &vote.Choice, &createdAt); err != nil {
			return fmt.Errorf("list veto votes: %w", err)
		}
		vote.CreatedAt = fromMillis(createdAt)
		i := index[requestID]
		requests[i].Votes = append(requests[i].Votes, vote)
	}
	return rows.Err()
}

// ListVisibleVetoRequests returns every pending request plus userID's own
// resolved ones, newest first.
func (s *Store) ListVisibleVetoRequests(ctx context.Context, userID string, limit int) ([]storage.VetoRequest, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+vetoColumns+` FROM veto_requests
		  WHERE status = 'pending' OR requester_id = ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list veto requests: %w", err)
	}
	var requests []storage.VetoRequest
	for rows.Next() {
		r, err := scanVetoRequest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("list veto requests: %w", err)
		}
		requests = append(requests, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list veto requests: %w", err)
	}
	if err := attachVotes(ctx, s.sqlDB, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// CountApprovalsBy counts every approve vote userID has cast.
func (s *Store) CountApprovalsBy(ctx context.Context, userID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM veto_votes WHERE user_id = ? AND vote = 'approve'`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count approvals: %w", err)
	}
	return n, nil
}

// CreateVetoRequest inserts one request without votes.
func (s *Store) CreateVetoRequest(ctx context.Context, request storage.VetoRequest) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	createdAt := request.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO veto_requests (`+vetoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		request.ID, request.RequesterID, request.RequesterName, request.Item, request.Amount,
		request.Reason, request.Status, toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create veto request: %w", err)
	}
	return nil
}

// GetVetoRequest returns one request with its votes.
func (s *Store) GetVetoRequest(ctx context.Context, requestID string) (storage.VetoRequest, error) {
	if err := s.ready(ctx); err != nil {
		return storage.VetoRequest{}, err
	}
	return getVetoRequest(ctx, s.sqlDB, requestID)
}

func getVetoRequest(ctx context.Context, q queryer, requestID string) (storage.VetoRequest, error) {
	r, err := scanVetoRequest(q.QueryRowContext(ctx,
		`SELECT `+vetoColumns+` FROM veto_requests WHERE id = ?`, requestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.VetoRequest{}, storage.ErrNotFound
		}
		return storage.VetoRequest{}, fmt.Errorf("get veto request: %w", err)
	}
	requests := []storage.VetoRequest{r}
	if err := attachVotes(ctx, q, requests); err != nil {
		return storage.VetoRequest{}, err
	}
	return requests[0], nil
}

// AddVetoVote records vote and stores the status decide returns, in one
// transaction. A second vote by the same user fails with ErrAlreadyExists.
func (s *Store) AddVetoVote(ctx context.Context, requestID string, vote storage.VetoVote, decide storage.VoteDecision) (storage.VetoRequest, error) {
	var request storage.VetoRequest
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		request, err = getVetoRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		for _, v := range request.Votes {
			if v.UserID == vote.UserID {
				return storage.ErrAlreadyExists
			}
		}
		if vote.CreatedAt.IsZero() {
			vote.CreatedAt = s.now()
		}
		request.Votes = append(request.Votes, vote)
		status, err := decide(request)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO veto_votes (request_id, user_id, vote, created_at) VALUES (?, ?, ?, ?)`,
			request.ID, vote.UserID, vote.Choice, toMillis(vote.CreatedAt),
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("add veto vote: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE veto_requests SET status = ? WHERE id = ?`, status, request.ID,
		); err != nil {
			return fmt.Errorf("update veto status: %w", err)
		}
		request.Status = status
		return nil
	})
	if err != nil {
		return storage.VetoRequest{}, err
	}
	return request, nil
}
