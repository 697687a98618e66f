package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skillcoder/podlog-archiver/internal/adapters/outbound/checkpoint"
	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

const (
	filePerm     = 0o644
	dirPerm      = 0o755
	requestQueue = 64
)

// document is the persisted layout: namespace -> pod -> container -> timestamp.
type document map[string]map[string]map[string]string

type requestKind int

const (
	requestGet requestKind = iota
	requestCommit
	requestPrune
)

type request struct {
	kind      requestKind
	target    archiver.Target
	at        time.Time
	olderThan time.Time
	keep      func(archiver.Target) bool
	reply     chan response
}

type response struct {
	at    time.Time
	found bool
	count int
	err   error
}

// Store keeps checkpoints in a single YAML document. One goroutine owns the data
// and the file; callers talk to it over a channel, so commits for different
// targets never overwrite each other.
type Store struct {
	logger *slog.Logger
	path   string

	// data is owned by the run goroutine once Start was called.
	data map[archiver.Target]time.Time

	requests   chan request
	quit       chan struct{}
	ready      chan struct{}
	doneCh     chan struct{}
	started    atomic.Bool
	inShutdown atomic.Bool
	closeOnce  sync.Once

	lastErrMu sync.RWMutex
	lastErr   error
}

// Open loads the document at path. A missing or empty file is an empty store;
// a document that is not the expected nested mapping is an error.
func Open(logger *slog.Logger, path string) (*Store, error) {
	s := &Store{
		logger:   logger.With("component", "checkpoint-yaml", "path", path),
		path:     path,
		data:     make(map[archiver.Target]time.Time),
		requests: make(chan request, requestQueue),
		quit:     make(chan struct{}),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) Name() string {
	return "checkpoint-yaml"
}

func (s *Store) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "checkpoint store is shutting down, skipping start")

		return nil
	}

	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	go s.run()

	close(s.ready)

	return nil
}

func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Ping reports the last write error, if the most recent write failed.
func (s *Store) Ping(context.Context) error {
	s.lastErrMu.RLock()
	defer s.lastErrMu.RUnlock()

	return s.lastErr
}

// Shutdown stops accepting requests and waits for pending commits to be written.
func (s *Store) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		return nil
	}

	s.closeOnce.Do(func() { close(s.quit) })

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before checkpoint store flushed: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "checkpoint store closed")
	}

	return nil
}

func (s *Store) Get(ctx context.Context, target archiver.Target) (time.Time, bool, error) {
	resp, err := s.call(ctx, request{kind: requestGet, target: target})
	if err != nil {
		return time.Time{}, false, err
	}

	return resp.at, resp.found, resp.err
}

// Commit records at for target. The stored value never moves backwards.
func (s *Store) Commit(ctx context.Context, target archiver.Target, at time.Time) error {
	resp, err := s.call(ctx, request{kind: requestCommit, target: target, at: at})
	if err != nil {
		return err
	}

	return resp.err
}

// Prune removes entries older than olderThan unless keep reports them as active.
func (s *Store) Prune(
	ctx context.Context,
	olderThan time.Time,
	keep func(archiver.Target) bool,
) (int, error) {
	resp, err := s.call(ctx, request{kind: requestPrune, olderThan: olderThan, keep: keep})
	if err != nil {
		return 0, err
	}

	return resp.count, resp.err
}

func (s *Store) call(ctx context.Context, req request) (response, error) {
	if !s.started.Load() {
		return response{}, ErrStoreNotStarted
	}

	req.reply = make(chan response, 1)

	select {
	case <-ctx.Done():
		return response{}, ctx.Err()
	case <-s.quit:
		return response{}, ErrStoreClosed
	case s.requests <- req:
	}

	select {
	case <-ctx.Done():
		return response{}, ctx.Err()
	case <-s.doneCh:
		// the loop answers every accepted request before it exits
		select {
		case resp := <-req.reply:
			return resp, nil
		default:
			return response{}, ErrStoreClosed
		}
	case resp := <-req.reply:
		return resp, nil
	}
}

func (s *Store) run() {
	defer close(s.doneCh)

	for {
		select {
		case req := <-s.requests:
			s.handleBatch(req)
		case <-s.quit:
			s.drain()

			return
		}
	}
}

// handleBatch serves req and everything already queued behind it, writing the file
// at most once for all mutations in the batch. Mutations are answered after the write.
// When the write fails the batch is rolled back, so Get never returns a value that
// is not on disk.
func (s *Store) handleBatch(first request) {
	type deferred struct {
		reply chan response
		count int
	}

	type previous struct {
		at    time.Time
		found bool
	}

	pending := make([]deferred, 0, 1)
	undo := make(map[archiver.Target]previous)

	remember := func(target archiver.Target, at time.Time, found bool) {
		if _, ok := undo[target]; !ok {
			undo[target] = previous{at: at, found: found}
		}
	}

	handle := func(req request) {
		switch req.kind {
		case requestGet:
			at, ok := s.data[req.target]
			req.reply <- response{at: at, found: ok}
		case requestCommit:
			at, found := s.data[req.target]
			if s.apply(req.target, req.at) {
				remember(req.target, at, found)
			}

			pending = append(pending, deferred{reply: req.reply})
		case requestPrune:
			removed := s.prune(req.olderThan, req.keep)
			for target, at := range removed {
				remember(target, at, true)
			}

			pending = append(pending, deferred{reply: req.reply, count: len(removed)})
		}
	}

	handle(first)

loop:
	for {
		select {
		case req := <-s.requests:
			handle(req)
		default:
			break loop
		}
	}

	var err error
	if len(undo) > 0 {
		err = s.flush()
	}

	if err != nil {
		for target, prev := range undo {
			if prev.found {
				s.data[target] = prev.at
			} else {
				delete(s.data, target)
			}
		}
	}

	for _, d := range pending {
		count := d.count
		if err != nil {
			count = 0
		}

		d.reply <- response{count: count, err: err}
	}
}

func (s *Store) drain() {
	for {
		select {
		case req := <-s.requests:
			s.handleBatch(req)
		default:
			return
		}
	}
}

func (s *Store) apply(target archiver.Target, at time.Time) bool {
	at = at.UTC().Truncate(time.Microsecond)

	current, ok := s.data[target]
	if ok && !at.After(current) {
		return false
	}

	s.data[target] = at

	return true
}

// prune deletes stale entries and returns them with their values.
func (s *Store) prune(olderThan time.Time, keep func(archiver.Target) bool) map[archiver.Target]time.Time {
	removed := make(map[archiver.Target]time.Time)

	for target, at := range s.data {
		if !at.Before(olderThan) || (keep != nil && keep(target)) {
			continue
		}

		delete(s.data, target)

		removed[target] = at
	}

	return removed
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("checkpoint file does not exist, starting empty")

			return nil
		}

		return fmt.Errorf("read checkpoint file: %w", err)
	}

	doc := make(document)

	err = yaml.Unmarshal(raw, &doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedDocument, s.path, err)
	}

	for ns, pods := range doc {
		for pod, containers := range pods {
			for container, value := range containers {
				target := archiver.Target{Namespace: ns, Pod: pod, Container: container}

				at, err := checkpoint.ParseTimestamp(value)
				if err != nil {
					s.logger.Warn("ignoring corrupt checkpoint entry",
						"target", target.String(),
						"reason", err,
					)

					continue
				}

				s.data[target] = at
			}
		}
	}

	s.logger.Info("checkpoints loaded", "count", len(s.data))

	return nil
}

func (s *Store) flush() error {
	doc := make(document)

	for target, at := range s.data {
		pods, ok := doc[target.Namespace]
		if !ok {
			pods = make(map[string]map[string]string)
			doc[target.Namespace] = pods
		}

		containers, ok := pods[target.Pod]
		if !ok {
			containers = make(map[string]string)
			pods[target.Pod] = containers
		}

		containers[target.Container] = checkpoint.FormatTimestamp(at)
	}

	err := s.writeFile(doc)

	s.lastErrMu.Lock()
	s.lastErr = err
	s.lastErrMu.Unlock()

	if err != nil {
		s.logger.Error("write checkpoint file failed", "reason", err)
	}

	return err
}

// writeFile replaces the document atomically with a temp file and rename.
func (s *Store) writeFile(doc document) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal checkpoints: %w", err)
	}

	dir := filepath.Dir(s.path)

	err = os.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("create checkpoint directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp checkpoint file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	_, err = tmp.Write(raw)
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write temp checkpoint file: %w", err)
	}

	err = tmp.Sync()
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("sync temp checkpoint file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close temp checkpoint file: %w", err)
	}

	err = os.Chmod(tmpPath, filePerm)
	if err != nil {
		return fmt.Errorf("chmod temp checkpoint file: %w", err)
	}

	err = os.Rename(tmpPath, s.path)
	if err != nil {
		return fmt.Errorf("rename checkpoint file: %w", err)
	}

	return nil
}
