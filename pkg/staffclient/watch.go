package staffclient

import (
	"context"
	"time"
)

// NoticeKind tells a watcher what happened to the session.
type NoticeKind string

const (
	NoticeWarning NoticeKind = "warning"
	NoticeExpired NoticeKind = "expired"
)

// DefaultWatchInterval is used when Watch is given a non-positive interval.
const DefaultWatchInterval = 30 * time.Second

// Notice is emitted by Watch.
type Notice struct {
	Kind      NoticeKind
	ExpiresAt time.Time
}

// Watch checks Status every interval until ctx is done. It emits one warning
// per expiry time once the session enters the warning window, and one expired
// notice when the session lapses, after which the store is purged and the
// client is unauthenticated. The channel is closed when ctx is done.
func (c *Client) Watch(ctx context.Context, interval time.Duration) <-chan Notice {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	out := make(chan Notice, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var warnedFor time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			st, err := c.Status()
			if err != nil {
				continue
			}

			var n *Notice
			switch {
			case st.State == Expired:
				if err := c.forget(); err != nil {
					continue
				}
				n = &Notice{Kind: NoticeExpired, ExpiresAt: st.ExpiresAt}
			case st.State == Authenticated && st.Warn && !st.ExpiresAt.Equal(warnedFor):
				warnedFor = st.ExpiresAt
				n = &Notice{Kind: NoticeWarning, ExpiresAt: st.ExpiresAt}
			}
			if n == nil {
				continue
			}

			select {
			case out <- *n:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
