package porytiles

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

func isSourceFile(name string) bool {
	switch filepath.Ext(name) {
	case ".png", ".csv", ".h", ".toml":
		return true
	}
	return false
}

// Watch recompiles srcDir into outDir whenever one of its source files
// changes. Rapid event bursts (editors write several times per save) are
// coalesced into one compile. Compile failures are logged and watching
// continues; only watcher failures or context cancellation end the loop.
func (p *Porytiles) Watch(ctx context.Context, srcDir, outDir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(srcDir); err != nil {
		return err
	}

	compile := func() {
		start := time.Now()
		if _, err := p.CompilePrimary(srcDir, outDir); err != nil {
			p.logger.Printf("Compile failed: %v\n", err)
			return
		}
		p.logger.Printf("Compiled \"%s\" in %s\n", srcDir, time.Since(start).Round(time.Millisecond))
	}
	compile()

	// A nil channel blocks forever, so the timer case only fires after an
	// event arms it.
	var pending <-chan time.Time
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isSourceFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				pending = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case <-pending:
			timer = nil
			pending = nil
			compile()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
