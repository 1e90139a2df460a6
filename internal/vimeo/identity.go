package vimeo

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/trop3n/samc/internal/metrics"
)

// Me resolves the authenticated user's numeric identifier. Listing is
// scoped to this user, so nothing downstream can proceed without it: any
// failure here — transport, non-2xx, or a response without a usable
// identity URI — is reported as an AuthError and is fatal to the run.
// No retries.
func (c *Client) Me(ctx context.Context) (int64, error) {
	started := time.Now()
	defer c.observe(metrics.OpIdentity, started)

	resp, err := c.get(ctx, "/me", url.Values{"fields": {"uri"}})
	if err != nil {
		return 0, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return 0, &AuthError{Status: se.Status, Err: err}
		}
		return 0, &AuthError{Err: err}
	}

	var user userPayload
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return 0, &AuthError{Err: &DecodeError{Err: err}}
	}

	id, ok := UserID(user.URI)
	if !ok {
		return 0, &AuthError{Err: errors.New("response carries no usable identity URI")}
	}
	return id, nil
}
