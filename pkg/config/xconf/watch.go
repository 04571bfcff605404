package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
)

// ReloadFunc 在一次防抖后的重载完成时调用，err 为 nil 表示重载成功。
// 监视出错（例如 fsnotify 报错）时同样以非 nil err 调用。
type ReloadFunc func(f *File, err error)

// Watch 监视配置文件变更并自动 Reload，阻塞直到 ctx 结束，此时返回 nil。
//
// 监视的是文件所在目录而非文件本身：编辑器保存时可能先删除再创建，
// 或写入临时文件后 rename，直接监视文件会丢失事件。
//
// fn 在 Watch 所在的 goroutine 中同步执行，Watch 返回后不会再被调用。
// 从字节数据创建的 File 返回 [ErrNotFileBacked]。
func (f *File) Watch(ctx context.Context, fn ReloadFunc, opts ...WatchOption) error {
	if f.path == "" {
		return ErrNotFileBacked
	}
	o := defaultWatchOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		return errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), w.Close())
	}

	var pending clockwork.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()

	name := filepath.Base(f.path)
	for {
		var fire <-chan time.Time
		if pending != nil {
			fire = pending.Chan()
		}

		select {
		case <-ctx.Done():
			return w.Close()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, name) {
				continue
			}
			// 防抖：丢弃旧计时器，从本次事件重新计时
			if pending != nil {
				pending.Stop()
			}
			pending = o.clock.NewTimer(o.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if fn != nil {
				fn(f, fmt.Errorf("xconf: watch error: %w", err))
			}

		case <-fire:
			pending = nil
			err := f.reloadWithRetry(ctx, o)
			if fn != nil {
				fn(f, err)
			}
		}
	}
}

// relevant 报告事件是否可能表示目标文件的内容更新。
// Write：原地修改；Create：部分编辑器新建文件；Rename：原子写入。
func relevant(ev fsnotify.Event, name string) bool {
	if filepath.Base(ev.Name) != name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// reloadWithRetry 按 o 的重试设置执行 Reload，返回最后一次的错误。
func (f *File) reloadWithRetry(ctx context.Context, o *watchOptions) error {
	return retry.New(
		retry.Context(ctx),
		retry.Attempts(o.retryAttempts),
		retry.Delay(o.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.WithTimer(o.clock),
	).Do(f.Reload)
}
