package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Farhaan96/CollisionOS-sub003/internal/metrics"
	"github.com/Farhaan96/CollisionOS-sub003/internal/store"
)

// The three documents are written independently: a crash between two
// writes can leave them out of sync, and the in-memory state stays
// authoritative for the session.
const (
	settingsKey = "notify:settings"
	historyKey  = "notify:history"
	dndKey      = "notify:dnd"
)

const persistTimeout = 5 * time.Second

type persistJob struct {
	key     string
	payload []byte
	remove  bool
}

// persister adapts a KeyValueStore to the engine's three documents. Writes
// are best effort and never block the delivery path: a single background
// writer applies them in order, and failures are logged and counted, never
// surfaced to callers.
type persister struct {
	kv     store.KeyValueStore
	logger *zap.Logger
	jobs   chan persistJob
	done   chan struct{}
}

func newPersister(kv store.KeyValueStore, logger *zap.Logger) *persister {
	p := &persister{
		kv:     kv,
		logger: logger,
		jobs:   make(chan persistJob, 64),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) run() {
	for job := range p.jobs {
		p.apply(job)
	}
	close(p.done)
}

func (p *persister) apply(job persistJob) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if job.remove {
		err = p.kv.Remove(ctx, job.key)
	} else {
		err = p.kv.Set(ctx, job.key, job.payload)
	}
	if err != nil {
		p.logger.Warn("durable store write failed, in-memory state remains authoritative",
			zap.String("key", job.key),
			zap.Error(err),
		)
		metrics.RecordPersistFailure(job.key)
	}
}

func (p *persister) enqueue(key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.logger.Warn("marshal for persistence failed",
			zap.String("key", key),
			zap.Error(err),
		)
		metrics.RecordPersistFailure(key)
		return
	}
	p.submit(persistJob{key: key, payload: payload})
}

func (p *persister) enqueueRemove(key string) {
	p.submit(persistJob{key: key, remove: true})
}

func (p *persister) submit(job persistJob) {
	select {
	case p.jobs <- job:
	default:
		p.logger.Warn("persistence queue full, dropping write", zap.String("key", job.key))
		metrics.RecordPersistFailure(job.key)
	}
}

// load reads one document into v, returning false when the key is absent
// or unreadable. A corrupt document is logged and treated as absent.
func (p *persister) load(key string, v any) bool {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	data, err := p.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false
	}
	if err != nil {
		p.logger.Warn("durable store read failed, using defaults",
			zap.String("key", key),
			zap.Error(err),
		)
		metrics.RecordPersistFailure(key)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		p.logger.Warn("corrupt document in durable store, using defaults",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (p *persister) loadSettings() (Settings, bool) {
	var s Settings
	ok := p.load(settingsKey, &s)
	return s, ok
}

func (p *persister) loadHistory() []Notification {
	var h []Notification
	if !p.load(historyKey, &h) {
		return nil
	}
	return h
}

func (p *persister) loadDND() (DoNotDisturb, bool) {
	var d DoNotDisturb
	ok := p.load(dndKey, &d)
	return d, ok
}

// close drains queued writes and stops the background writer.
func (p *persister) close() {
	close(p.jobs)
	<-p.done
}
