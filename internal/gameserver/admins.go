package gameserver

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// AdminList is the case-insensitive admin allowlist, reloaded live when
// the backing file changes. Reload publishes a fresh immutable set through
// an atomic pointer.
type AdminList struct {
	path string
	set  atomic.Pointer[map[string]struct{}]
}

// NewAdminList loads the allowlist file. A missing file yields an empty
// list, not an error.
func NewAdminList(path string) *AdminList {
	l := &AdminList{path: path}
	l.reload()
	return l
}

// IsAdmin reports whether the username is allowlisted.
func (l *AdminList) IsAdmin(username string) bool {
	set := l.set.Load()
	if set == nil {
		return false
	}
	_, ok := (*set)[strings.ToLower(strings.TrimSpace(username))]
	return ok
}

func (l *AdminList) reload() {
	set := make(map[string]struct{})
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("reading admin allowlist", "path", l.path, "error", err)
		}
		l.set.Store(&set)
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		name := strings.ToLower(strings.TrimSpace(line))
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		set[name] = struct{}{}
	}
	l.set.Store(&set)
	slog.Info("admin allowlist loaded", "path", l.path, "admins", len(set))
}

// Watch reloads the list whenever the file changes, until the context is
// cancelled.
func (l *AdminList) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file wholesale.
	dir := "."
	if i := strings.LastIndexByte(l.path, '/'); i >= 0 {
		dir = l.path[:i]
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name == l.path && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				l.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("admin allowlist watcher", "error", err)
		}
	}
}
