// Package notifier pushes admin notices to an external endpoint,
// best-effort. Deliveries carry an idempotency key so the receiver can
// dedupe retried pushes; after one retry the notice is dropped.
package notifier

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
	"github.com/learnhub-dev/learnhub/internal/app/logger"
)

const queueSize = 64

type Notifier struct {
	endpoint   string
	httpClient *http.Client
	noticeCh   chan entity.Notice
	done       chan struct{}
}

// New starts the push loop. An empty endpoint disables pushing; notices are
// then discarded on enqueue.
func New(endpoint string, timeout int) *Notifier {
	n := &Notifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		noticeCh: make(chan entity.Notice, queueSize),
		done:     make(chan struct{}),
	}

	go n.loop()

	return n
}

// Push enqueues a notice for delivery. Never blocks: when the queue is full
// the notice is dropped, which the contract allows.
func (n *Notifier) Push(notice entity.Notice) {
	if n.endpoint == "" {
		return
	}
	select {
	case n.noticeCh <- notice:
	default:
		logger.Logger.Warn().Str("title", notice.Title).Msg("notice queue full, dropping")
	}
}

func (n *Notifier) Close() {
	close(n.done)
}

func (n *Notifier) loop() {
	for {
		select {
		case <-n.done:
			return
		case notice := <-n.noticeCh:
			key := uuid.NewString()
			if err := n.send(notice, key); err != nil {
				logger.Logger.Err(err).Str("key", key).Msg("notice push failed, retrying once")
				if err := n.send(notice, key); err != nil {
					logger.Logger.Err(err).Str("key", key).Msg("notice push failed, dropping")
				}
			}
		}
	}
}

func (n *Notifier) send(notice entity.Notice, idempotencyKey string) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	res, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return &StatusError{Code: res.StatusCode}
	}
	return nil
}

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "notice endpoint returned " + http.StatusText(e.Code)
}
