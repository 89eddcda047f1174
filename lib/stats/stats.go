package stats

import (
	"sync"
	"time"
)

// Snapshot is the JSON view of Stats served by the api.
type Snapshot struct {
	Frames    uint64  `json:"frames"`
	FPS       uint64  `json:"fps"`
	Uptime    float64 `json:"uptime"`
	WsClients int     `json:"ws_clients"`
	GLVendor  string  `json:"gl_vendor,omitempty"`
	GLVersion string  `json:"gl_version,omitempty"`
}

// Stats is written by the render thread and read by api goroutines.
type Stats struct {
	mu sync.Mutex
	s  Snapshot

	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	now          func() time.Time
}

func New() *Stats {
	s := &Stats{now: time.Now}
	s.start = s.now()
	s.frameTimer = s.start
	return s
}

// Update is called once per rendered frame.
func (s *Stats) Update() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.s.Frames++
	s.frameCounter++
	if now.Sub(s.frameTimer) >= time.Second {
		s.s.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.s.Uptime = float64(now.Sub(s.start).Nanoseconds()) / 1e9
}

func (s *Stats) SetGLInfo(vendor string, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.GLVendor = vendor
	s.s.GLVersion = version
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.WsClients = n
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s
}
