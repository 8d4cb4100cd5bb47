package connect

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/llehouerou/swell/internal/audio"
)

var (
	_ SessionClient   = (*mockSessions)(nil)
	_ TokenService    = (*mockTokens)(nil)
	_ PlayerEngine    = (*mockPlayers)(nil)
	_ RemoteControl   = (*mockRemotes)(nil)
	_ ControlSurface  = (*mockSurface)(nil)
	_ CredentialCache = (*mockCache)(nil)
)

// recorder is a Listener that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Since returns events recorded after the first n.
func (r *recorder) Since(n int) []Event {
	return r.Events()[n:]
}

type mockSession struct {
	mu     sync.Mutex
	closed bool
}

func (s *mockSession) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *mockSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type mockSessions struct {
	mu       sync.Mutex
	errs     []error
	sessions []*mockSession
	creds    []Credentials
}

// FailNext makes the next Connect call fail with err.
func (m *mockSessions) FailNext(err error) {
	m.mu.Lock()
	m.errs = append(m.errs, err)
	m.mu.Unlock()
}

func (m *mockSessions) Connect(_ context.Context, _ SessionConfig, creds Credentials, _ CredentialCache) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = append(m.creds, creds)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	s := &mockSession{}
	m.sessions = append(m.sessions, s)
	return s, nil
}

func (m *mockSessions) Session(i int) *mockSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[i]
}

func (m *mockSessions) Creds(i int) Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds[i]
}

func (m *mockSessions) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type mockTokens struct {
	mu       sync.Mutex
	token    Token
	err      error
	panicMsg string
	// panicOnCancel delays the panic until the request context ends.
	panicOnCancel bool
	calls         int
}

func (m *mockTokens) Token(ctx context.Context, _ Session, _ string, _ []string) (Token, error) {
	m.mu.Lock()
	m.calls++
	tok, err, msg, late := m.token, m.err, m.panicMsg, m.panicOnCancel
	m.mu.Unlock()
	if late {
		<-ctx.Done()
	}
	if msg != "" {
		panic(msg)
	}
	return tok, err
}

func (m *mockTokens) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockPlayer struct {
	mu      sync.Mutex
	stopped bool
}

func (p *mockPlayer) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

type mockPlayers struct {
	mu     sync.Mutex
	events []chan PlayerEvent
}

func (m *mockPlayers) NewPlayer(_ PlayerConfig, _ Session, _ audio.Filter, _ func() (audio.Sink, error)) (Player, <-chan PlayerEvent) {
	ch := make(chan PlayerEvent, 16)
	m.mu.Lock()
	m.events = append(m.events, ch)
	m.mu.Unlock()
	return &mockPlayer{}, ch
}

// Emit sends an engine event on the latest player's event channel.
func (m *mockPlayers) Emit(pe PlayerEvent) {
	m.mu.Lock()
	ch := m.events[len(m.events)-1]
	m.mu.Unlock()
	ch <- pe
}

type mockSurface struct {
	mu          sync.Mutex
	calls       []string
	panicOnPlay bool
}

func (s *mockSurface) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

func (s *mockSurface) Play() {
	s.mu.Lock()
	p := s.panicOnPlay
	s.mu.Unlock()
	if p {
		panic("surface exploded")
	}
	s.record("play")
}

func (s *mockSurface) Pause()    { s.record("pause") }
func (s *mockSurface) Next()     { s.record("next") }
func (s *mockSurface) Prev()     { s.record("prev") }
func (s *mockSurface) Shutdown() { s.record("shutdown") }

func (s *mockSurface) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type mockTask struct {
	once sync.Once
	done chan struct{}
}

func (t *mockTask) Done() <-chan struct{} { return t.done }

// End simulates the remote session terminating.
func (t *mockTask) End() {
	t.once.Do(func() { close(t.done) })
}

type mockRemotes struct {
	mu       sync.Mutex
	surfaces []*mockSurface
	tasks    []*mockTask
	volumes  []uint16
}

func (m *mockRemotes) NewRemote(_ ConnectConfig, _ Session, _ Player, mixer audio.Mixer) (ControlSurface, Task) {
	s := &mockSurface{}
	t := &mockTask{done: make(chan struct{})}
	m.mu.Lock()
	m.surfaces = append(m.surfaces, s)
	m.tasks = append(m.tasks, t)
	m.volumes = append(m.volumes, mixer.Volume())
	m.mu.Unlock()
	return s, t
}

func (m *mockRemotes) Surface() *mockSurface {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surfaces[len(m.surfaces)-1]
}

func (m *mockRemotes) Task() *mockTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[len(m.tasks)-1]
}

func (m *mockRemotes) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.surfaces)
}

type mockBackend struct {
	sessions *mockSessions
	tokens   *mockTokens
	players  *mockPlayers
	remotes  *mockRemotes
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		sessions: &mockSessions{},
		tokens:   &mockTokens{token: Token{AccessToken: "tok", ExpiresIn: time.Hour}},
		players:  &mockPlayers{},
		remotes:  &mockRemotes{},
	}
}

func (m *mockBackend) Backend() Backend {
	return Backend{
		Sessions: m.sessions,
		Tokens:   m.tokens,
		Players:  m.players,
		Remotes:  m.remotes,
	}
}

type mockCache struct {
	mu      sync.Mutex
	creds   *Credentials
	volume  uint16
	hasVol  bool
	removed int
}

func (c *mockCache) Credentials() (*Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds, nil
}

func (c *mockCache) SaveCredentials(creds Credentials) error {
	c.mu.Lock()
	c.creds = &creds
	c.mu.Unlock()
	return nil
}

func (c *mockCache) RemoveCredentials() error {
	c.mu.Lock()
	c.creds = nil
	c.removed++
	c.mu.Unlock()
	return nil
}

func (c *mockCache) Volume() (uint16, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume, c.hasVol, nil
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.DeviceID = "0123456789abcdef"
	opts.DeviceName = "test device"
	opts.ClientID = "client"
	opts.Backend = "pipe"
	opts.Username = "alice"
	opts.Password = "secret"
	return opts
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := Setup(testOptions())
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return cfg
}

// indexOf returns the position of the first event of type E, or -1.
func indexOf[E Event](events []Event) int {
	for i, e := range events {
		if _, ok := e.(E); ok {
			return i
		}
	}
	return -1
}

func countOf[E Event](events []Event) int {
	n := 0
	for _, e := range events {
		if _, ok := e.(E); ok {
			n++
		}
	}
	return n
}
