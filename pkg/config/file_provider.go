package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the write bursts editors and orchestrators
// produce when replacing a config file.
const debounceWindow = 200 * time.Millisecond

// FileProvider serves the current configuration and notifies
// subscribers when the backing file changes on disk.
type FileProvider struct {
	path        string
	logger      *slog.Logger
	mu          sync.RWMutex
	current     Config
	subscribers []chan Config
	closed      bool
	watcher     *fsnotify.Watcher
	cancel      context.CancelFunc
}

// NewFileProvider loads path and starts watching its directory.
// A missing file is not fatal; the provider starts from defaults and
// picks the file up once it appears.
func NewFileProvider(path string, logger *slog.Logger) (*FileProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &FileProvider{
		path:    absPath,
		logger:  logger,
		current: Default(),
		watcher: watcher,
		cancel:  cancel,
	}

	if cfg, err := Load(absPath); err != nil {
		logger.Warn("initial config load failed, starting from defaults", "path", absPath, "error", err)
	} else {
		p.current = cfg
	}

	// Watch the directory, not the file: atomic renames replace the
	// inode and a file watch would go stale.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		cancel()
		_ = watcher.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	go p.watchLoop(ctx)

	return p, nil
}

// Current returns the most recently loaded configuration.
func (p *FileProvider) Current() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Subscribe returns a channel that receives the current configuration
// immediately and every successfully reloaded configuration after that.
// After Close the returned channel is already closed.
func (p *FileProvider) Subscribe() <-chan Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan Config, 1)
	if p.closed {
		close(ch)
		return ch
	}
	p.subscribers = append(p.subscribers, ch)
	ch <- p.current
	return ch
}

// Close stops the watcher and closes all subscriber channels. Safe to
// call more than once.
func (p *FileProvider) Close() error {
	p.cancel()
	err := p.watcher.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return err
	}
	p.closed = true
	for _, ch := range p.subscribers {
		close(ch)
	}
	p.subscribers = nil

	return err
}

func (p *FileProvider) watchLoop(ctx context.Context) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, p.reload)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", "error", err)
		}
	}
}

// reload re-reads the file and fans the result out. A file that fails
// to load keeps the previous configuration in place.
//
// The fan-out happens under the mutex: a debounce timer can still be
// firing while Close runs, and Close closes every subscriber channel
// under the same lock, so sending outside it would race a send against
// a close. The sends never block; each subscriber channel is buffered
// and full buffers are dropped.
func (p *FileProvider) reload() {
	cfg, err := Load(p.path)
	if err != nil {
		p.logger.Error("config reload failed, keeping previous configuration", "path", p.path, "error", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.current = cfg
	p.logger.Info("configuration reloaded", "path", p.path)

	for _, ch := range p.subscribers {
		select {
		case ch <- cfg:
		default:
			// Drop rather than block on a slow subscriber.
		}
	}
}
