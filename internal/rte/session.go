package rte

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"scorm_rte/internal/cmi"
	"scorm_rte/internal/lms"
	"scorm_rte/internal/model"
	"scorm_rte/pkg/logger"
)

const (
	invalidDiagnostic = "cmi.suspend_data value is invalid"
	invalidExitDelay  = time.Second
)

type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateTerminated:
		return "terminated"
	}
	return "uninitialized"
}

type Config struct {
	CommitAsync    bool
	CommCheck      bool
	AutoExit       bool
	CompletedURL   string
	CompletedDelay time.Duration
	ExitURL        string
	RequestTimeout time.Duration
}

// Session 对应一个内容页面上下文：一份学习记录、一个调用状态机
type Session struct {
	mu sync.Mutex

	id        string
	attemptID string
	cfg       Config
	model     *cmi.DataModel
	syncer    Syncer
	host      Host
	journal   Journal
	log       *zap.Logger
	ctx       context.Context

	state      State
	errorCode  string
	diagnostic string
	invalid    bool
	hooksArmed bool
	unloaded   bool

	inflight sync.WaitGroup
}

type Option func(*Session)

func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithIdentity(id, attemptID string) Option {
	return func(s *Session) {
		s.id = id
		s.attemptID = attemptID
	}
}

// WithContext sets the parent context of every LMS request the session makes.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

func NewSession(version model.Version, cfg Config, syncer Syncer, host Host, opts ...Option) *Session {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.CompletedDelay <= 0 {
		cfg.CompletedDelay = 5 * time.Second
	}
	if host == nil {
		host = NopHost{}
	}
	s := &Session{
		cfg:       cfg,
		model:     cmi.New(version, cmi.Options{CommCheck: cfg.CommCheck, AutoExit: cfg.AutoExit}),
		syncer:    syncer,
		host:      host,
		ctx:       context.Background(),
		errorCode: NoError,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Log
	}
	s.log = s.log.With(zap.String("session_id", s.id), zap.String("version", string(version)))
	return s
}

func (s *Session) ID() string             { return s.id }
func (s *Session) AttemptID() string      { return s.attemptID }
func (s *Session) Version() model.Version { return s.model.Version() }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Invalid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalid
}

// UpdateConfig swaps the behaviour flags; in-flight requests keep the old ones.
func (s *Session) UpdateConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = s.cfg.RequestTimeout
	}
	if cfg.CompletedDelay <= 0 {
		cfg.CompletedDelay = s.cfg.CompletedDelay
	}
	s.cfg = cfg
	s.model.SetOptions(cmi.Options{CommCheck: cfg.CommCheck, AutoExit: cfg.AutoExit})
}

func (s *Session) requireInitialized() error {
	switch s.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateTerminated:
		return ErrTerminated
	}
	return nil
}

// 以下方法要求调用方已持有 s.mu

func (s *Session) initialize() error {
	switch s.state {
	case StateInitialized:
		return ErrAlreadyInitialized
	case StateTerminated:
		return ErrTerminated
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	payload, err := s.syncer.Fetch(ctx)
	s.journalize(ctx, model.SyncOpFetch, err, 0, time.Since(start))
	if err != nil {
		s.diagnostic = lms.Diagnostic(err)
		s.log.Warn("initialize failed", zap.Error(err))
		return ErrInitFailed
	}

	s.model.InitFrom(payload)
	s.state = StateInitialized
	s.hooksArmed = true
	return nil
}

func (s *Session) terminate() error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	// 即使提交失败也视为终止成功，诊断信息保留
	_ = s.commit(true)
	s.state = StateTerminated
	return nil
}

func (s *Session) getValue(path string) (string, error) {
	if err := s.requireInitialized(); err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrArgument
	}
	return s.model.GetValue(path)
}

func (s *Session) setValue(path, value string) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	if path == "" {
		return ErrArgument
	}

	eff, err := s.model.SetValue(path, value)
	if err != nil {
		return err
	}

	if eff.Invalid {
		s.invalid = true
		s.diagnostic = invalidDiagnostic
		s.log.Error("content is not communicating properly, forcing exit",
			zap.String("attempt_id", s.attemptID))
		s.navigate(s.cfg.ExitURL, invalidExitDelay)
	}
	if eff.Commit {
		_ = s.commit(false)
	}
	if eff.Passed {
		s.passed()
	}
	if eff.AutoExit {
		url := s.cfg.CompletedURL
		if url == "" {
			url = s.cfg.ExitURL
		}
		s.navigate(url, s.cfg.CompletedDelay)
	}

	if eff.Invalid {
		return ErrInvalidSession
	}
	return nil
}

// commit serializes the record under the lock and sends it. In async mode the
// request runs in its own goroutine and the call reports success right away.
func (s *Session) commit(flushOnExit bool) error {
	rec := s.model.Record()
	payload, mark := lms.BuildCommit(rec)
	closeAfter := flushOnExit && rec.Exit != model.ExitSuspend
	entries := len(payload.ActivityReport)
	timeout := s.cfg.RequestTimeout

	if s.cfg.CommitAsync {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			err := s.send(payload, entries, timeout)

			s.mu.Lock()
			defer s.mu.Unlock()
			s.commitDone(err, mark, closeAfter, flushOnExit)
		}()
		return nil
	}

	err := s.send(payload, entries, timeout)
	s.commitDone(err, mark, closeAfter, flushOnExit)
	if err != nil {
		return ErrCommitFailed
	}
	return nil
}

func (s *Session) send(payload *model.CommitPayload, entries int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	start := time.Now()
	err := s.syncer.Commit(ctx, payload)
	s.journalize(ctx, model.SyncOpCommit, err, entries, time.Since(start))
	return err
}

func (s *Session) commitDone(err error, mark int, closeAfter, flushOnExit bool) {
	if err != nil {
		s.diagnostic = lms.Diagnostic(err)
		return
	}
	s.model.Record().AckActivity(mark)
	if flushOnExit {
		// 终止时的提交已成功，卸载钩子无需再提交
		s.hooksArmed = false
	}
	if closeAfter {
		s.host.Close()
	}
}

func (s *Session) passed() {
	timeout := s.cfg.RequestTimeout
	run := func() {
		ctx, cancel := context.WithTimeout(s.ctx, timeout)
		defer cancel()
		start := time.Now()
		err := s.syncer.Passed(ctx)
		s.journalize(ctx, model.SyncOpPassed, err, 0, time.Since(start))
	}

	if s.cfg.CommitAsync {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			run()
		}()
		return
	}
	run()
}

func (s *Session) navigate(url string, delay time.Duration) {
	if url == "" {
		s.log.Warn("navigation requested but no URL is configured")
		return
	}
	s.host.Navigate(url, delay)
}

func (s *Session) journalize(ctx context.Context, op string, err error, entries int, took time.Duration) {
	if s.journal == nil {
		return
	}
	entry := &model.SyncLog{
		SessionID:  s.id,
		AttemptID:  s.attemptID,
		Version:    string(s.model.Version()),
		Operation:  op,
		Success:    err == nil,
		Diagnostic: lms.Diagnostic(err),
		Entries:    entries,
		DurationMS: took.Milliseconds(),
	}
	// 请求的 ctx 可能已超时，日志写入不应受影响
	if jerr := s.journal.Record(context.WithoutCancel(ctx), entry); jerr != nil {
		s.log.Warn("failed to record sync log", zap.String("operation", op), zap.Error(jerr))
	}
}

// Unload flushes pending data when the page goes away. Only the first
// unload or pagehide after initialization commits.
func (s *Session) Unload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hooksArmed || s.unloaded {
		return false
	}
	s.unloaded = true
	_ = s.commit(false)
	return true
}

func (s *Session) PageHide() bool {
	return s.Unload()
}

// Wait blocks until asynchronous commits and passed notifications finish.
func (s *Session) Wait() {
	s.inflight.Wait()
}

type Snapshot struct {
	ID         string        `json:"id"`
	AttemptID  string        `json:"attempt_id"`
	Version    model.Version `json:"version"`
	State      State         `json:"state"`
	ErrorCode  string        `json:"error_code"`
	Diagnostic string        `json:"diagnostic"`
	Invalid    bool          `json:"invalid"`
	HooksArmed bool          `json:"hooks_armed"`
	Unloaded   bool          `json:"unloaded"`
	Record     *model.Record `json:"record"`
}

// Snapshot 导出会话状态，记录经过深拷贝，可以安全地跨 goroutine 使用
func (s *Session) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.model.Record())
	if err != nil {
		return nil, err
	}
	var rec model.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	return &Snapshot{
		ID:         s.id,
		AttemptID:  s.attemptID,
		Version:    s.model.Version(),
		State:      s.state,
		ErrorCode:  s.errorCode,
		Diagnostic: s.diagnostic,
		Invalid:    s.invalid,
		HooksArmed: s.hooksArmed,
		Unloaded:   s.unloaded,
		Record:     &rec,
	}, nil
}

// RestoreSession rebuilds a session from a snapshot taken by Snapshot.
func RestoreSession(snap *Snapshot, cfg Config, syncer Syncer, host Host, opts ...Option) *Session {
	opts = append([]Option{WithIdentity(snap.ID, snap.AttemptID)}, opts...)
	s := NewSession(snap.Version, cfg, syncer, host, opts...)
	if snap.Record != nil {
		s.model = cmi.FromRecord(snap.Record, cmi.Options{CommCheck: s.cfg.CommCheck, AutoExit: s.cfg.AutoExit})
	}
	s.state = snap.State
	s.errorCode = snap.ErrorCode
	if s.errorCode == "" {
		s.errorCode = NoError
	}
	s.diagnostic = snap.Diagnostic
	s.invalid = snap.Invalid
	s.hooksArmed = snap.HooksArmed
	s.unloaded = snap.Unloaded
	return s
}

// takeDiagnostic returns the pending diagnostic once, falling back to the
// current error code.
func (s *Session) takeDiagnostic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.diagnostic != "" {
		d := s.diagnostic
		s.diagnostic = ""
		return d
	}
	return s.errorCode
}
