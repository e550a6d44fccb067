package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"scorm_rte/internal/config"
	"scorm_rte/internal/lms"
	"scorm_rte/internal/model"
	"scorm_rte/internal/rte"
	"scorm_rte/internal/util"
	"scorm_rte/pkg/logger"
	"scorm_rte/pkg/monitoring"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateSessionRequest struct {
	AttemptID string `json:"attempt_id" binding:"required"`
	Version   string `json:"version" binding:"required"`
}

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	API       string    `json:"api"`
	Version   string    `json:"version"`
	ExpiresAt time.Time `json:"expires_at"`
	// 配置了 server.public_url 时返回会话的绝对路径
	BaseURL string `json:"base_url,omitempty"`
}

type CallRequest struct {
	Method string   `json:"method" binding:"required"`
	Args   []string `json:"args"`
}

type CallResponse struct {
	Result     any         `json:"result"`
	ErrorCode  string      `json:"error_code"`
	Directives []Directive `json:"directives"`
}

type LifecycleResponse struct {
	Flushed    bool        `json:"flushed"`
	Directives []Directive `json:"directives"`
}

// liveSession 是内存中持有的会话
type liveSession struct {
	caller   rte.Caller
	host     *DirectiveHost
	lastSeen time.Time
}

// RTEService 管理所有页面会话：创建、调用分发、生命周期和过期清理
type RTEService struct {
	Cfg     *config.Config
	Store   SessionStore
	Journal rte.Journal
	HTTP    *http.Client

	mu       sync.Mutex
	sessions map[string]*liveSession

	now func() time.Time
}

func NewRTEService(cfg *config.Config, store SessionStore, journal rte.Journal) *RTEService {
	if store == nil {
		store = NewMemoryStore()
	}
	return &RTEService{
		Cfg:      cfg,
		Store:    store,
		Journal:  journal,
		HTTP:     &http.Client{},
		sessions: make(map[string]*liveSession),
		now:      time.Now,
	}
}

// UpdateConfig 热更新配置，LMS 行为开关同时下发到内存中的会话
// LMS 地址和令牌设置只影响之后新建或恢复的会话
func (s *RTEService) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	s.Cfg = cfg
	live := make([]*liveSession, 0, len(s.sessions))
	for _, l := range s.sessions {
		live = append(live, l)
	}
	s.mu.Unlock()

	sc := sessionConfig(cfg)
	for _, l := range live {
		l.caller.Session().UpdateConfig(sc)
	}
	logger.Log.Info("RTE config updated", zap.Int("live_sessions", len(live)))
}

func (s *RTEService) config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Cfg
}

func sessionConfig(cfg *config.Config) rte.Config {
	return rte.Config{
		CommitAsync:    cfg.LMS.CommitAsync,
		CommCheck:      cfg.LMS.CommCheck,
		AutoExit:       cfg.LMS.CompletedAutoExit,
		CompletedURL:   cfg.LMS.CompletedURL,
		CompletedDelay: cfg.LMS.CompletedURLDelay,
		ExitURL:        cfg.LMS.ExitURL,
		RequestTimeout: cfg.LMS.RequestTimeout,
	}
}

// Endpoints 由 LMS 地址前缀和 attempt id 拼出 init/commit/passed 三个地址
func Endpoints(baseURL, attemptID string) lms.Endpoints {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return lms.Endpoints{}
	}
	id := url.PathEscape(attemptID)
	return lms.Endpoints{
		InitURL:   base + "/fetch/" + id,
		CommitURL: base + "/commit/" + id,
		PassedURL: base + "/passed/" + id,
	}
}

func apiName(v model.Version) string {
	if v == model.Version12 {
		return util.APIName12
	}
	return util.APIName2004
}

func (s *RTEService) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error) {
	version := model.Version(req.Version)
	if !version.Valid() {
		return nil, fmt.Errorf("%w: %q", util.ErrUnsupportedVersion, req.Version)
	}
	if strings.TrimSpace(req.AttemptID) == "" {
		return nil, util.ErrAttemptRequired
	}

	cfg := s.config()
	id := uuid.New().String()
	token, expiresAt, err := util.GenerateSessionToken(id, req.AttemptID, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	host := NewDirectiveHost()
	sess := rte.NewSession(version, sessionConfig(cfg), s.syncer(cfg, req.AttemptID), host, s.sessionOptions(id, req.AttemptID)...)
	live := &liveSession{caller: rte.NewCaller(sess), host: host, lastSeen: s.now()}

	snap, err := sess.Snapshot()
	if err == nil {
		err = s.Store.Save(ctx, snap)
	}
	if err != nil {
		return nil, fmt.Errorf("save session snapshot: %w", err)
	}
	s.register(id, live)

	logger.Log.Info("RTE session created",
		zap.String("session_id", id),
		zap.String("attempt_id", req.AttemptID),
		zap.String("version", string(version)))

	return &CreateSessionResponse{
		SessionID: id,
		Token:     token,
		API:       apiName(version),
		Version:   string(version),
		ExpiresAt: expiresAt,
		BaseURL:   sessionURL(cfg.Server.PublicURL, id),
	}, nil
}

func sessionURL(publicURL, id string) string {
	if publicURL == "" {
		return ""
	}
	return strings.TrimRight(publicURL, "/") + "/api/rte/sessions/" + url.PathEscape(id)
}

func (s *RTEService) syncer(cfg *config.Config, attemptID string) rte.Syncer {
	return lms.NewClient(Endpoints(cfg.LMS.BaseURL, attemptID), s.HTTP)
}

func (s *RTEService) sessionOptions(id, attemptID string) []rte.Option {
	opts := []rte.Option{
		rte.WithIdentity(id, attemptID),
		rte.WithLogger(logger.Log),
	}
	if s.Journal != nil {
		opts = append(opts, rte.WithJournal(s.Journal))
	}
	return opts
}

func (s *RTEService) register(id string, live *liveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = live
	monitoring.SessionsActive.Set(float64(len(s.sessions)))
}

func (s *RTEService) unregister(id string) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[id]
	if !ok {
		return nil
	}
	delete(s.sessions, id)
	monitoring.SessionsActive.Set(float64(len(s.sessions)))
	return live
}

// lookup 返回内存中的会话，没有时尝试从快照恢复
func (s *RTEService) lookup(ctx context.Context, id string) (*liveSession, error) {
	s.mu.Lock()
	live, ok := s.sessions[id]
	if ok {
		live.lastSeen = s.now()
	}
	s.mu.Unlock()
	if ok {
		return live, nil
	}

	snap, err := s.Store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session snapshot: %w", err)
	}
	if snap == nil {
		return nil, util.ErrSessionNotFound
	}

	cfg := s.config()
	host := NewDirectiveHost()
	sess := rte.RestoreSession(snap, sessionConfig(cfg), s.syncer(cfg, snap.AttemptID), host, s.sessionOptions(snap.ID, snap.AttemptID)...)
	restored := &liveSession{caller: rte.NewCaller(sess), host: host, lastSeen: s.now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 并发恢复时以先注册的为准
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	s.sessions[id] = restored
	monitoring.SessionsActive.Set(float64(len(s.sessions)))
	logger.Log.Info("RTE session restored from snapshot", zap.String("session_id", id))
	return restored, nil
}

func (s *RTEService) persist(ctx context.Context, live *liveSession) {
	snap, err := live.caller.Session().Snapshot()
	if err == nil {
		err = s.Store.Save(ctx, snap)
	}
	if err != nil {
		logger.Log.Warn("failed to save session snapshot",
			zap.String("session_id", live.caller.Session().ID()),
			zap.Error(err))
	}
}

// Call 转发一次 API 调用，返回结果、当前错误码以及待执行的页面指令
func (s *RTEService) Call(ctx context.Context, id string, req CallRequest) (*CallResponse, error) {
	live, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := live.caller.Call(req.Method, req.Args...)
	if err != nil {
		return nil, err
	}
	s.persist(ctx, live)

	return &CallResponse{
		Result:     result,
		ErrorCode:  live.caller.Session().LastError(),
		Directives: nonNil(live.host.Drain()),
	}, nil
}

// Lifecycle 处理页面的 unload/pagehide 事件，最多触发一次提交
func (s *RTEService) Lifecycle(ctx context.Context, id, event string) (*LifecycleResponse, error) {
	if event != util.LifecycleUnload && event != util.LifecyclePageHide {
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownLifecycle, event)
	}
	live, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	sess := live.caller.Session()
	var flushed bool
	if event == util.LifecyclePageHide {
		flushed = sess.PageHide()
	} else {
		flushed = sess.Unload()
	}
	sess.Wait()
	s.persist(ctx, live)

	return &LifecycleResponse{Flushed: flushed, Directives: nonNil(live.host.Drain())}, nil
}

// Close 刷新并移除会话
func (s *RTEService) Close(ctx context.Context, id string) error {
	live, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	s.evict(ctx, id, live)
	return nil
}

func (s *RTEService) evict(ctx context.Context, id string, live *liveSession) {
	sess := live.caller.Session()
	sess.Unload()
	sess.Wait()
	s.unregister(id)
	if err := s.Store.Delete(ctx, id); err != nil {
		logger.Log.Warn("failed to delete session snapshot", zap.String("session_id", id), zap.Error(err))
	}
}

// SweepIdle 清理超过空闲时间的会话，返回清理数量
func (s *RTEService) SweepIdle(ctx context.Context) int {
	ttl := s.config().Session.IdleTTL
	if ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	idle := make(map[string]*liveSession)
	for id, live := range s.sessions {
		if live.lastSeen.Before(cutoff) {
			idle[id] = live
		}
	}
	s.mu.Unlock()

	for id, live := range idle {
		s.evict(ctx, id, live)
	}
	if len(idle) > 0 {
		logger.Log.Info("idle RTE sessions evicted", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Shutdown 在进程退出前刷新所有会话，快照保留以便重启后恢复
func (s *RTEService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	live := make([]*liveSession, 0, len(s.sessions))
	for _, l := range s.sessions {
		live = append(live, l)
	}
	s.mu.Unlock()

	for _, l := range live {
		sess := l.caller.Session()
		sess.Unload()
		sess.Wait()
		s.persist(ctx, l)
	}
}

func (s *RTEService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func nonNil(d []Directive) []Directive {
	if d == nil {
		return []Directive{}
	}
	return d
}
