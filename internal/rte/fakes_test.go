package rte

import (
	"context"
	"sync"
	"time"

	"scorm_rte/internal/lms"
	"scorm_rte/internal/model"
)

type fakeSyncer struct {
	mu        sync.Mutex
	init      *model.InitPayload
	fetchErr  error
	commitErr error
	commits   []*model.CommitPayload
	passed    int
}

func (f *fakeSyncer) Fetch(context.Context) (*model.InitPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.init, f.fetchErr
}

func (f *fakeSyncer) Commit(_ context.Context, p *model.CommitPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits = append(f.commits, p)
	return f.commitErr
}

func (f *fakeSyncer) Passed(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passed++
	return nil
}

func (f *fakeSyncer) failCommits(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commitErr = &lms.SyncError{Op: model.SyncOpCommit, Diagnostic: body, Err: lms.ErrNotAcknowledged}
}

func (f *fakeSyncer) acceptCommits() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commitErr = nil
}

func (f *fakeSyncer) commitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commits)
}

func (f *fakeSyncer) lastCommit() *model.CommitPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.commits) == 0 {
		return nil
	}
	return f.commits[len(f.commits)-1]
}

type navigation struct {
	url   string
	delay time.Duration
}

type fakeHost struct {
	mu          sync.Mutex
	navigations []navigation
	closed      int
}

func (h *fakeHost) Navigate(url string, delay time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.navigations = append(h.navigations, navigation{url: url, delay: delay})
}

func (h *fakeHost) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []*model.SyncLog
}

func (j *fakeJournal) Record(_ context.Context, e *model.SyncLog) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}
