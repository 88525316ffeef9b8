// Package sse streams change notifications to connected dashboards.
//
// Two named events flow through the broadcaster: results_changed when a
// grouping document is written by a pipeline run or an edit, and
// data_changed when the database file watcher sees a write from another
// process.
package sse

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Event names sent to clients.
const (
	EventConnected      = "connected"
	EventResultsChanged = "results_changed"
	EventDataChanged    = "data_changed"
)

// writeTimeout bounds a single write so one stale connection cannot
// hold up a broadcast.
const writeTimeout = 2 * time.Second

// Client is one connected SSE stream.
type Client struct {
	ID      string
	writer  http.ResponseWriter
	flusher http.Flusher
	done    chan struct{}
}

// Broadcaster fans events out to every connected client.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[string]*Client
	nextID  int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[string]*Client)}
}

// ResultsChanged notifies clients that a survey's grouping document was
// written. Implements the Notifier interfaces of the processing and
// editing packages.
func (b *Broadcaster) ResultsChanged(surveyID string) {
	b.Broadcast(EventResultsChanged, map[string]string{"survey_id": surveyID})
}

// DataChanged notifies clients that the database file was modified by
// another process.
func (b *Broadcaster) DataChanged(path string) {
	b.Broadcast(EventDataChanged, map[string]string{"path": path})
}

// Broadcast sends a named event with a JSON payload to all clients.
// Writes run concurrently with a timeout; clients that fail or stall
// are dropped.
func (b *Broadcaster) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to marshal SSE payload")
		return
	}
	message := fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)

	b.mu.RLock()
	clients := make([]*Client, 0, len(b.clients))
	for _, client := range b.clients {
		clients = append(clients, client)
	}
	b.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	deadCh := make(chan string, len(clients))
	var wg sync.WaitGroup
	for _, client := range clients {
		select {
		case <-client.done:
			continue
		default:
		}
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			b.write(c, message, deadCh)
		}(client)
	}
	wg.Wait()
	close(deadCh)

	for id := range deadCh {
		b.drop(id)
	}
}

// write pushes one message to one client, reporting it dead on error or
// timeout.
func (b *Broadcaster) write(client *Client, message string, deadCh chan<- string) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := client.writer.Write([]byte(message)); err != nil {
			log.Debug().Str("clientId", client.ID).Err(err).Msg("SSE write failed")
			deadCh <- client.ID
			return
		}
		client.flusher.Flush()
	}()

	select {
	case <-done:
	case <-time.After(writeTimeout):
		log.Warn().Str("clientId", client.ID).Msg("SSE write timed out")
		deadCh <- client.ID
	case <-client.done:
	}
}

// add registers a new client stream.
func (b *Broadcaster) add(w http.ResponseWriter) (*Client, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	b.mu.Lock()
	b.nextID++
	client := &Client{
		ID:      fmt.Sprintf("client-%d", b.nextID),
		writer:  w,
		flusher: flusher,
		done:    make(chan struct{}),
	}
	b.clients[client.ID] = client
	total := len(b.clients)
	b.mu.Unlock()

	log.Debug().Str("clientId", client.ID).Int("totalClients", total).Msg("SSE client connected")
	return client, nil
}

// remove deregisters a client that disconnected normally.
func (b *Broadcaster) remove(client *Client) {
	b.mu.Lock()
	delete(b.clients, client.ID)
	total := len(b.clients)
	b.mu.Unlock()

	close(client.done)
	log.Debug().Str("clientId", client.ID).Int("totalClients", total).Msg("SSE client disconnected")
}

// drop removes a client found dead during a broadcast.
func (b *Broadcaster) drop(id string) {
	b.mu.Lock()
	client, exists := b.clients[id]
	if exists {
		delete(b.clients, id)
	}
	b.mu.Unlock()

	if exists {
		select {
		case <-client.done:
		default:
			close(client.done)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// HandleSSE serves one SSE connection until the client goes away.
func (b *Broadcaster) HandleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client, err := b.add(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer b.remove(client)

	fmt.Fprintf(w, "event: %s\ndata: {\"client_id\":%q}\n\n", EventConnected, client.ID)
	client.flusher.Flush()

	<-r.Context().Done()
}
