package rte

import (
	"context"
	"time"

	"scorm_rte/internal/model"
)

// Host is the page that embeds the content. The engine only ever asks it to
// navigate away or to close.
type Host interface {
	Navigate(url string, delay time.Duration)
	Close()
}

type NopHost struct{}

func (NopHost) Navigate(string, time.Duration) {}
func (NopHost) Close()                         {}

// Syncer is the LMS side of the session; *lms.Client implements it.
type Syncer interface {
	Fetch(ctx context.Context) (*model.InitPayload, error)
	Commit(ctx context.Context, payload *model.CommitPayload) error
	Passed(ctx context.Context) error
}

// Journal receives one entry per LMS request.
type Journal interface {
	Record(ctx context.Context, entry *model.SyncLog) error
}
