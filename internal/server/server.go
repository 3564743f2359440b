// Package server previews a control document in the browser: it rebuilds
// the preview whenever the control tree changes and tells open pages to
// reload over a websocket.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the tree must stay quiet before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Options configures the preview server.
type Options struct {
	Addr string
	// Watch lists files and directories whose changes trigger a rebuild.
	// Directories are watched recursively; missing paths are ignored.
	Watch []string
	// PreviewDir is served at "/"; its HTML pages get the reload script.
	PreviewDir string
	// AssetsRoot is served at "/assets/".
	AssetsRoot string
	Debounce   time.Duration
	Log        *zap.Logger
}

// Run builds once, then serves the preview until ctx is done.
func Run(ctx context.Context, opts Options, build func() error) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if err := build(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watchPaths(watcher, opts.Watch, log); err != nil {
		return err
	}

	hub := newHub(log)
	rebuild := func() {
		start := time.Now()
		if err := build(); err != nil {
			log.Error("rebuild failed", zap.Error(err))
			hub.BroadcastError(err)
			return
		}
		log.Info("preview rebuilt", zap.Duration("took", time.Since(start)), zap.Int("clients", hub.count()))
		hub.Broadcast(ReloadMessage)
	}
	go watchLoop(ctx, watcher, ignoreFunc(opts.PreviewDir), opts.Debounce, rebuild, log)

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", opts.Addr, err)
	}
	srv := &http.Server{Handler: newMux(hub, opts), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving preview", zap.String("url", "http://"+ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newMux(hub *Hub, opts Options) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.serveWs)
	if opts.AssetsRoot != "" {
		mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(opts.AssetsRoot))))
	}
	mux.Handle("/", previewHandler(opts.PreviewDir))
	return mux
}

// previewHandler serves HTML pages of dir with the reload script appended
// to the body and hands every other path to a file server.
func previewHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		name := path.Clean("/" + r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/") {
			name = path.Join(name, "index.html")
		}
		if path.Ext(name) != ".html" {
			files.ServeHTTP(w, r)
			return
		}

		page, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if i := bytes.LastIndex(page, []byte("</body>")); i >= 0 {
			page = append(page[:i:i], append([]byte(reloadScript), page[i:]...)...)
		} else {
			page = append(page, reloadScript...)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})
}

// watchPaths adds every directory under each path. A file is watched
// through its parent so editors that save by rename are still seen.
func watchPaths(watcher *fsnotify.Watcher, paths []string, log *zap.Logger) error {
	seen := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		if err := watcher.Add(dir); err != nil {
			log.Warn("could not watch directory", zap.String("dir", dir), zap.Error(err))
			return
		}
		log.Debug("watching directory", zap.String("dir", dir))
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("watch path missing, skipped", zap.String("path", p))
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", p, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		err = filepath.WalkDir(p, func(walked string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(walked)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
	}
	return nil
}

// ignoreFunc reports events the preview itself causes: atomic-write temp
// files, editor swap files and anything under the preview directory.
func ignoreFunc(previewDir string) func(string) bool {
	previewDir = filepath.Clean(previewDir)
	return func(name string) bool {
		base := filepath.Base(name)
		switch {
		case strings.HasPrefix(base, ".sitesync-tmp-"),
			strings.HasSuffix(base, "~"),
			strings.HasSuffix(base, ".swp"),
			base == "4913":
			return true
		}
		if previewDir == "." || previewDir == "" {
			return false
		}
		rel, err := filepath.Rel(previewDir, name)
		return err == nil && !strings.HasPrefix(rel, "..")
	}
}

// watchLoop calls rebuild once the watched tree has been quiet for delay
// after a relevant change. New directories are watched as they appear.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, ignore func(string) bool, delay time.Duration, rebuild func(), log *zap.Logger) {
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) || ignore(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					watchPaths(watcher, []string{event.Name}, log)
				}
			}
			log.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(delay)
		case <-timer.C:
			rebuild()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

const reloadScript = `<script>
(function () {
  var socket = new WebSocket("ws://" + window.location.host + "/ws");
  socket.onmessage = function (event) {
    if (event.data === "reload") {
      window.location.reload();
      return;
    }
    if (event.data.indexOf("error:") === 0) {
      var box = document.getElementById("sitesync-error") || document.createElement("pre");
      box.id = "sitesync-error";
      box.style.cssText = "position:fixed;bottom:0;left:0;right:0;margin:0;padding:1em;background:#7f1d1d;color:#fff;white-space:pre-wrap;z-index:9999";
      box.textContent = event.data.slice(6);
      document.body.appendChild(box);
    }
  };
  socket.onclose = function () {
    console.warn("sitesync: preview server gone, restart 'sitesync serve'");
  };
})();
</script>
`
