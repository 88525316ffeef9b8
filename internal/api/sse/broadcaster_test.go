package sse

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

// BroadcasterSuite is a test suite for Broadcaster operations.
type BroadcasterSuite struct {
	suite.Suite
	broadcaster *Broadcaster
}

func (s *BroadcasterSuite) SetupTest() {
	s.broadcaster = NewBroadcaster()
}

func TestBroadcasterSuite(t *testing.T) {
	suite.Run(t, new(BroadcasterSuite))
}

// mockResponseWriter implements http.ResponseWriter and http.Flusher.
type mockResponseWriter struct {
	mu     sync.Mutex
	header http.Header
	body   []byte
	failed bool
}

func newMockResponseWriter() *mockResponseWriter {
	return &mockResponseWriter{header: make(http.Header)}
}

func (m *mockResponseWriter) Header() http.Header { return m.header }

func (m *mockResponseWriter) Write(data []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed {
		return 0, http.ErrHandlerTimeout
	}
	m.body = append(m.body, data...)
	return len(data), nil
}

func (m *mockResponseWriter) WriteHeader(int) {}

func (m *mockResponseWriter) Flush() {}

func (m *mockResponseWriter) Body() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.body)
}

func (m *mockResponseWriter) fail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = true
}

func (s *BroadcasterSuite) TestNewBroadcaster() {
	s.NotNil(s.broadcaster)
	s.Equal(0, s.broadcaster.ClientCount())
}

func (s *BroadcasterSuite) TestAddAndRemoveClient() {
	w := newMockResponseWriter()

	client, err := s.broadcaster.add(w)
	s.Require().NoError(err)
	s.NotEmpty(client.ID)
	s.Equal(1, s.broadcaster.ClientCount())

	s.broadcaster.remove(client)
	s.Equal(0, s.broadcaster.ClientCount())

	select {
	case <-client.done:
	default:
		s.Fail("done channel should be closed after remove")
	}
}

// nonFlusher is a ResponseWriter without http.Flusher.
type nonFlusher struct{ header http.Header }

func (n *nonFlusher) Header() http.Header       { return n.header }
func (n *nonFlusher) Write([]byte) (int, error) { return 0, nil }
func (n *nonFlusher) WriteHeader(int)           {}

func (s *BroadcasterSuite) TestAddClient_RequiresFlusher() {
	_, err := s.broadcaster.add(&nonFlusher{header: make(http.Header)})
	s.Error(err)
	s.Equal(0, s.broadcaster.ClientCount())
}

func (s *BroadcasterSuite) TestResultsChanged_DeliversNamedEvent() {
	w := newMockResponseWriter()
	_, err := s.broadcaster.add(w)
	s.Require().NoError(err)

	s.broadcaster.ResultsChanged("survey-42")

	body := w.Body()
	s.Contains(body, "event: results_changed\n")
	s.Contains(body, `"survey_id":"survey-42"`)
	s.True(strings.HasSuffix(body, "\n\n"))
}

func (s *BroadcasterSuite) TestDataChanged_DeliversNamedEvent() {
	w := newMockResponseWriter()
	_, err := s.broadcaster.add(w)
	s.Require().NoError(err)

	s.broadcaster.DataChanged("/tmp/collate.db")

	body := w.Body()
	s.Contains(body, "event: data_changed\n")
	s.Contains(body, `"path":"/tmp/collate.db"`)
}

func (s *BroadcasterSuite) TestBroadcast_MultipleClients() {
	writers := make([]*mockResponseWriter, 3)
	for i := range writers {
		writers[i] = newMockResponseWriter()
		_, err := s.broadcaster.add(writers[i])
		s.Require().NoError(err)
	}

	s.broadcaster.ResultsChanged("survey-1")

	for _, w := range writers {
		s.Contains(w.Body(), "survey-1")
	}
}

func (s *BroadcasterSuite) TestBroadcast_DropsFailedClient() {
	healthy := newMockResponseWriter()
	broken := newMockResponseWriter()
	broken.fail()

	_, err := s.broadcaster.add(healthy)
	s.Require().NoError(err)
	_, err = s.broadcaster.add(broken)
	s.Require().NoError(err)
	s.Equal(2, s.broadcaster.ClientCount())

	s.broadcaster.ResultsChanged("survey-1")

	s.Equal(1, s.broadcaster.ClientCount())
	s.Contains(healthy.Body(), "survey-1")
}

func (s *BroadcasterSuite) TestBroadcast_NoClients() {
	// Must not panic or block
	s.broadcaster.ResultsChanged("survey-1")
	s.Equal(0, s.broadcaster.ClientCount())
}
