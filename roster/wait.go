// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package roster

import (
	"context"
	"time"
)

// WaitForPresence evaluates cond every interval until it reports ok and
// returns the value it produced. Errors from cond do not end the wait; the
// last one is attached to the TimeoutError if the budget runs out.
func WaitForPresence[T any](ctx context.Context, what string, timeout, interval time.Duration, cond func(context.Context) (T, bool, error)) (T, error) {
	var zero T
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	for {
		v, ok, err := cond(timeoutCtx)
		if err == nil && ok {
			return v, nil
		}
		if err != nil {
			last = err
		}
		select {
		case <-ticker.C:
		case <-timeoutCtx.Done():
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			return zero, &TimeoutError{What: what, Timeout: timeout, Last: last}
		}
	}
}

// WaitForAbsence evaluates present every interval until it reports false.
func WaitForAbsence(ctx context.Context, what string, timeout, interval time.Duration, present func(context.Context) (bool, error)) error {
	_, err := WaitForPresence(ctx, what, timeout, interval, func(ctx context.Context) (struct{}, bool, error) {
		p, err := present(ctx)
		return struct{}{}, err == nil && !p, err
	})
	return err
}

// pause sleeps for d unless ctx is cancelled first.
func pause(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
