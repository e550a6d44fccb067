package service

import (
	"sync"
	"time"
)

const (
	DirectiveNavigate = "navigate"
	DirectiveClose    = "close"
)

// Directive 是引擎对宿主页面的指令，在下一次调用响应中返回给浏览器
type Directive struct {
	Action  string `json:"action"`
	URL     string `json:"url,omitempty"`
	DelayMS int64  `json:"delay_ms,omitempty"`
}

// DirectiveHost queues host actions until the bridge hands them to the page.
type DirectiveHost struct {
	mu      sync.Mutex
	pending []Directive
}

func NewDirectiveHost() *DirectiveHost {
	return &DirectiveHost{}
}

func (h *DirectiveHost) Navigate(url string, delay time.Duration) {
	h.push(Directive{Action: DirectiveNavigate, URL: url, DelayMS: delay.Milliseconds()})
}

func (h *DirectiveHost) Close() {
	h.push(Directive{Action: DirectiveClose})
}

func (h *DirectiveHost) push(d Directive) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, d)
}

// Drain returns the queued directives and empties the queue.
func (h *DirectiveHost) Drain() []Directive {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	return out
}
