// Package session runs a live editing session: one goroutine owns the graph
// and applies renderer messages in arrival order, then broadcasts the new
// scene to every subscriber.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/msalah0e/filemap/internal/config"
	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/hooks"
	"github.com/msalah0e/filemap/internal/input"
	"github.com/msalah0e/filemap/internal/layout"
	"github.com/msalah0e/filemap/internal/scene"
	"github.com/msalah0e/filemap/internal/workspace"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned by Submit once Run has returned.
	ErrClosed = errors.New("session closed")
	// ErrNoNode is returned for a view of an index outside the graph.
	ErrNoNode = errors.New("no such node")
)

// Options configure a Session.
type Options struct {
	Store   *layout.Store
	Pattern string
	Input   input.Options
	Hooks   config.HooksConfig
	Watch   bool
	Log     *zap.Logger
}

type request struct {
	msg   Message
	reply chan result
}

type result struct {
	frames []Frame
	err    error
}

// Session serializes all access to one graph.
type Session struct {
	graph *scene.Graph
	disp  *input.Dispatcher
	opts  Options
	log   *zap.Logger

	folder      string
	stopWatch   context.CancelFunc
	views       []string
	runCtx      context.Context
	inbox       chan request
	done        chan struct{}
	subsMu      sync.Mutex
	subscribers map[string]chan Frame
}

// New creates a session around g. Call Run to start processing.
func New(g *scene.Graph, opts Options) *Session {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Pattern == "" {
		opts.Pattern = workspace.DefaultPattern
	}
	if opts.Store == nil {
		cwd, _ := os.Getwd()
		opts.Store = layout.NewStore("", cwd, opts.Log)
	}
	s := &Session{
		graph:       g,
		opts:        opts,
		log:         opts.Log,
		inbox:       make(chan request),
		done:        make(chan struct{}),
		subscribers: make(map[string]chan Frame),
	}
	s.disp = input.NewDispatcher(g, input.ViewerFunc(func(path string) {
		s.views = append(s.views, path)
	}), opts.Input, opts.Log)
	return s
}

// Folder returns the folder opened last, or "".
func (s *Session) Folder() string { return s.folder }

// Run processes messages until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.runCtx = ctx
	defer close(s.done)
	defer func() {
		if s.stopWatch != nil {
			s.stopWatch()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.inbox:
			frames, mutated, err := s.handle(req.msg)
			req.reply <- result{frames: frames, err: err}
			if mutated {
				s.broadcast()
			}
		}
	}
}

// Submit validates msg, hands it to the session goroutine and waits for the
// frames addressed to the sender.
func (s *Session) Submit(ctx context.Context, msg Message) ([]Frame, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return s.submit(ctx, msg)
}

func (s *Session) submit(ctx context.Context, msg Message) ([]Frame, error) {
	req := request{msg: msg, reply: make(chan result, 1)}
	select {
	case s.inbox <- req:
	case <-s.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.frames, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe registers a client for snapshot broadcasts. The returned
// function unsubscribes and closes the channel.
func (s *Session) Subscribe(id string) (<-chan Frame, func()) {
	ch := make(chan Frame, 16)
	s.subsMu.Lock()
	s.subscribers[id] = ch
	s.subsMu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subscribers, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
}

// broadcast sends the current scene to every subscriber. A subscriber whose
// buffer is full misses this snapshot; the next one supersedes it.
func (s *Session) broadcast() {
	snap := s.graph.Snapshot()
	frame := Frame{Type: FrameSnapshot, Snapshot: &snap}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for id, ch := range s.subscribers {
		select {
		case ch <- frame:
		default:
			s.log.Debug("subscriber lagging, snapshot dropped", zap.String("client", id))
		}
	}
}

func (s *Session) snapshotFrame() Frame {
	snap := s.graph.Snapshot()
	return Frame{Type: FrameSnapshot, Snapshot: &snap}
}

// handle applies one message. It runs on the Run goroutine only.
func (s *Session) handle(msg Message) (frames []Frame, mutated bool, err error) {
	switch msg.Type {
	case TypeDown, TypeUp:
		b, err := input.ParseButton(msg.Button)
		if err != nil {
			return nil, false, err
		}
		if msg.Type == TypeDown {
			s.disp.PointerDown(msg.Point(), b)
		} else {
			s.disp.PointerUp(msg.Point(), b)
		}
		return s.drainViews(), true, nil

	case TypeMove:
		s.disp.PointerMove(msg.Point())
		return nil, true, nil

	case TypeKey:
		r, _ := utf8.DecodeRuneInString(msg.Key)
		return nil, s.disp.Key(r), nil

	case TypeOpen:
		added, err := workspace.Import(s.graph, msg.Folder, s.opts.Pattern)
		if err != nil {
			return nil, false, err
		}
		abs, _ := filepath.Abs(msg.Folder)
		s.folder = abs
		s.log.Info("folder opened", zap.String("folder", abs), zap.Int("added", added))
		s.watch(abs)
		return nil, added > 0, nil

	case TypeNew:
		path, err := workspace.Create(s.folder, msg.Name, workspace.Extension(s.opts.Pattern))
		if err != nil {
			return nil, false, err
		}
		_, added := s.graph.AddNode(path, geom.Point{})
		s.runHook(hooks.PostNew, map[string]string{"FILEMAP_FILE": path})
		return nil, added, nil

	case TypeSave:
		if err := s.opts.Store.Save(s.graph); err != nil {
			return nil, false, err
		}
		s.runHook(hooks.PostSave, map[string]string{"FILEMAP_LAYOUT": s.opts.Store.Path})
		return nil, false, nil

	case TypeLoad:
		if err := s.opts.Store.Load(s.graph); err != nil {
			return nil, false, err
		}
		return nil, true, nil

	case TypeView:
		n := s.graph.Node(msg.Index)
		if n == nil {
			return nil, false, fmt.Errorf("%w: %d", ErrNoNode, msg.Index)
		}
		s.views = append(s.views, n.Path())
		return s.drainViews(), false, nil

	case TypeSnapshot:
		return []Frame{s.snapshotFrame()}, false, nil

	case typeImport:
		_, added := s.graph.AddNode(msg.Folder, geom.Point{})
		return nil, added, nil
	}
	return nil, false, fmt.Errorf("%w: unknown type %q", ErrInvalid, msg.Type)
}

// typeImport is queued by the folder watcher; Folder carries the file path.
const typeImport = "import"

// drainViews turns viewer requests raised while handling a message into
// content frames for the sender. Read failures become error frames.
func (s *Session) drainViews() []Frame {
	if len(s.views) == 0 {
		return nil
	}
	frames := make([]Frame, 0, len(s.views))
	for _, path := range s.views {
		text, err := workspace.Read(path)
		if err != nil {
			s.log.Warn("viewer read failed", zap.String("path", path), zap.Error(err))
			frames = append(frames, Frame{Type: FrameError, Path: path, Message: err.Error()})
			continue
		}
		frames = append(frames, Frame{Type: FrameContent, Path: path, Text: text})
	}
	s.views = s.views[:0]
	return frames
}

// watch replaces the folder watcher with one for dir. New files are fed
// back through the inbox so the graph is still touched by Run alone.
func (s *Session) watch(dir string) {
	if !s.opts.Watch || s.runCtx == nil {
		return
	}
	if s.stopWatch != nil {
		s.stopWatch()
	}
	ctx, cancel := context.WithCancel(s.runCtx)
	s.stopWatch = cancel
	go func() {
		err := workspace.Watch(ctx, dir, s.opts.Pattern, func(path string) {
			if _, err := s.submit(ctx, Message{Type: typeImport, Folder: path}); err != nil && ctx.Err() == nil {
				s.log.Warn("import of new file failed", zap.String("path", path), zap.Error(err))
			}
		}, s.log)
		if err != nil {
			s.log.Warn("folder watcher stopped", zap.String("folder", dir), zap.Error(err))
		}
	}()
}

func (s *Session) runHook(phase string, env map[string]string) {
	if err := hooks.Run(s.opts.Hooks, phase, env, os.Stderr); err != nil {
		s.log.Warn("hook failed", zap.String("phase", phase), zap.Error(err))
	}
}
