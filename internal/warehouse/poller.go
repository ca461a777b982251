package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// awaitCompletion polls the statement until it reaches a terminal state.
// Manifest and result accumulate: a poll that omits them keeps the values
// already held. Polls are strictly sequential.
func (c *Client) awaitCompletion(ctx context.Context, submitted *statementResponse) (*statementResponse, error) {
	id := submitted.StatementID
	state := submitted.state()
	manifest, result := submitted.Manifest, submitted.Result
	var svcErr *serviceError
	if submitted.Status != nil {
		svcErr = submitted.Status.Error
	}

	start := time.Now()
	var budget <-chan time.Time
	if c.cfg.PollTimeout > 0 && !state.Terminal() {
		timer := time.NewTimer(c.cfg.PollTimeout)
		defer timer.Stop()
		budget = timer.C
	}

	polls := 0
	for !state.Terminal() {
		wait := time.NewTimer(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			wait.Stop()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, &TimeoutError{StatementID: id, LastState: state, Waited: time.Since(start), Err: ctx.Err()}
			}
			return nil, fmt.Errorf("wait for statement %s: %w", id, ctx.Err())
		case <-budget:
			wait.Stop()
			c.logger.Warn("statement poll budget exhausted", "statement_id", id, "state", state, "polls", polls)
			return nil, &TimeoutError{StatementID: id, LastState: state, Waited: time.Since(start)}
		case <-wait.C:
		}

		polled, err := c.getStatement(ctx, id)
		if err != nil {
			return nil, deadlineError(ctx, err, id, state, start)
		}
		polls++

		state = polled.state()
		if polled.Manifest != nil {
			manifest = polled.Manifest
		}
		if polled.Result != nil {
			result = polled.Result
		}
		if polled.Status != nil && polled.Status.Error != nil {
			svcErr = polled.Status.Error
		}
		c.logger.Debug("statement polled", "statement_id", id, "state", state, "poll", polls)
	}

	if state != StateSucceeded {
		remoteErr := &RemoteExecutionError{StatementID: id, State: state}
		if svcErr != nil {
			remoteErr.ErrorCode = svcErr.ErrorCode
			remoteErr.Message = svcErr.Message
		}
		return nil, remoteErr
	}

	return &statementResponse{
		StatementID: id,
		Status:      &statementStatus{State: state},
		Manifest:    manifest,
		Result:      result,
	}, nil
}

// deadlineError reports err as a TimeoutError when the caller's deadline
// interrupted the request. Any other error is returned unchanged.
func deadlineError(ctx context.Context, err error, id string, state State, start time.Time) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{StatementID: id, LastState: state, Waited: time.Since(start), Err: ctx.Err()}
	}
	return err
}
