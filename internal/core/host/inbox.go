package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/ixv/internal/core/logging"
)

const (
	inboxDebounce   = 25 * time.Millisecond
	inboxBufferSize = 64
)

// Inbox delivers lines appended to a file. Lines present when the inbox is
// opened are skipped; a truncated file is read again from the start.
type Inbox struct {
	path    string
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu      sync.Mutex
	offset  int64
	partial []byte
	timer   *time.Timer

	out    chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// OpenInbox creates the inbox file if needed and starts watching it.
func OpenInbox(path string) (*Inbox, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open inbox: %w", err)
	}
	info, err := f.Stat()
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("stat inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory so editors that replace the file are picked up.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	in := &Inbox{
		path:    path,
		watcher: watcher,
		log:     logging.Component("inbox"),
		offset:  info.Size(),
		out:     make(chan []byte, inboxBufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	in.wg.Add(1)
	go in.run()

	return in, nil
}

// Messages returns the channel of raw inbound lines. It is closed by Close.
func (in *Inbox) Messages() <-chan []byte {
	return in.out
}

// Close stops watching and closes the message channel.
func (in *Inbox) Close() error {
	in.cancel()

	in.mu.Lock()
	if in.timer != nil {
		in.timer.Stop()
	}
	in.mu.Unlock()

	err := in.watcher.Close()
	in.wg.Wait()

	in.mu.Lock()
	close(in.out)
	in.out = nil
	in.mu.Unlock()
	return err
}

func (in *Inbox) run() {
	defer in.wg.Done()

	for {
		select {
		case <-in.ctx.Done():
			return
		case event, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(in.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			in.mu.Lock()
			if in.timer != nil {
				in.timer.Stop()
			}
			in.timer = time.AfterFunc(inboxDebounce, in.drain)
			in.mu.Unlock()
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			in.log.Warn().Err(err).Msg("inbox watch error")
		}
	}
}

// drain reads everything appended since the last read and delivers the
// complete lines.
func (in *Inbox) drain() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.out == nil {
		return
	}

	f, err := os.Open(in.path)
	if err != nil {
		in.log.Warn().Err(err).Msg("open inbox")
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		in.log.Warn().Err(err).Msg("stat inbox")
		return
	}
	if info.Size() < in.offset {
		in.offset = 0
		in.partial = nil
	}

	if _, err := f.Seek(in.offset, io.SeekStart); err != nil {
		in.log.Warn().Err(err).Msg("seek inbox")
		return
	}
	data, err := io.ReadAll(f)
	if err != nil {
		in.log.Warn().Err(err).Msg("read inbox")
		return
	}
	in.offset += int64(len(data))

	msgs, rest := splitMessages(append(in.partial, data...))
	for _, msg := range msgs {
		select {
		case in.out <- msg:
		default:
			in.log.Warn().Msg("inbox full, dropping message")
		}
	}
	in.partial = append([]byte(nil), rest...)
}
