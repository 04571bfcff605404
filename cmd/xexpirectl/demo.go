package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xexpire/pkg/config/xconf"
	"github.com/omeyang/xexpire/pkg/observability/xlog"
	"github.com/omeyang/xexpire/pkg/storage/xexpire"
)

func (a *app) demoCommand() *cli.Command {
	return &cli.Command{
		Name:         "demo",
		Usage:        "创建集合、加入值并打印每一次到期通知",
		ArgsUsage:    "[values...]",
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "配置文件路径（YAML/JSON），变更时实时应用 log.level"},
			&cli.StringFlag{Name: "default", Usage: "集合默认存储时长，覆盖配置文件 (如 5s、unlimited)"},
			&cli.StringFlag{Name: "duration", Aliases: []string{"d"}, Usage: "每个值的存储时长 (如 2s、unlimited、default)", Value: "default"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "未给出 values 时自动生成的值数量", Value: defaultCount},
			&cli.StringFlag{Name: "ids", Usage: "自动生成值的方式 (uuid/flake)", Value: idsUUID},
			&cli.DurationFlag{Name: "wait", Aliases: []string{"w"}, Usage: "最长等待时间", Value: defaultWait},
		},
		Action: a.demoAction,
	}
}

// demoParams 是 demo 命令解析后的参数。
type demoParams struct {
	cfg      xexpire.Config
	duration xexpire.StorageDuration
	values   []string
	file     *xconf.File
}

func (a *app) demoParams(cmd *cli.Command) (demoParams, error) {
	var p demoParams
	if path := cmd.String("config"); path != "" {
		f, fc, err := loadConfig(path)
		if err != nil {
			return p, err
		}
		p.file, p.cfg = f, fc.Expire
		a.applyLogConfig(context.Background(), fc.Log)
	}
	if cmd.IsSet("default") {
		d, err := xexpire.ParseStorageDuration(cmd.String("default"))
		if err != nil {
			return p, &usageError{err: fmt.Errorf("--default: %w", err)}
		}
		if d.IsDefault() {
			return p, usagef("--default 必须是具体时长或 unlimited")
		}
		p.cfg.DefaultDuration = d
	}
	d, err := xexpire.ParseStorageDuration(cmd.String("duration"))
	if err != nil {
		return p, &usageError{err: fmt.Errorf("--duration: %w", err)}
	}
	p.duration = d
	if cmd.Duration("wait") <= 0 {
		return p, usagef("--wait 必须为正数: got %s", cmd.Duration("wait"))
	}

	p.values = dedup(cmd.Args().Slice())
	if len(p.values) == 0 {
		n := cmd.Int("count")
		if n <= 0 {
			return p, usagef("--count 必须为正数: got %d", n)
		}
		gen, err := newIDGenerator(cmd.String("ids"))
		if err != nil {
			return p, err
		}
		for range n {
			id, err := gen()
			if err != nil {
				return p, fmt.Errorf("generate value: %w", err)
			}
			p.values = append(p.values, id)
		}
	}
	return p, nil
}

func (a *app) demoAction(ctx context.Context, cmd *cli.Command) error {
	p, err := a.demoParams(cmd)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	g.Go(func() error {
		defer stopWatch()
		return a.runDemo(gctx, p, cmd)
	})
	if p.file != nil {
		g.Go(func() error {
			return p.file.Watch(watchCtx, a.onReload)
		})
	}
	return g.Wait()
}

// runDemo 加入所有值并等待：全部有限时长的值到期、--wait 超时或 ctx 取消。
func (a *app) runDemo(ctx context.Context, p demoParams, cmd *cli.Command) error {
	out := &syncWriter{w: a.stdout}
	done := make(chan struct{})
	var pending atomic.Int64

	set, err := xexpire.NewFromConfig(p.cfg,
		xexpire.WithClock[string](a.clock),
		xexpire.WithLogger[string](a.logger),
		xexpire.WithOnExpired(func(ev xexpire.Expired[string]) {
			out.printf("expired %s after %s\n", ev.Value, ev.Timer.Duration)
			if pending.Add(-1) == 0 {
				close(done)
			}
		}),
	)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := set.Close(); cerr != nil {
			a.logger.Warn(ctx, "close set failed", xlog.Err(cerr))
		}
	}()

	start := a.clock.Now()
	defer func() {
		a.logger.Info(ctx, "demo finished",
			xlog.Operation("demo"),
			xlog.Duration(a.clock.Since(start)),
			xlog.Count(int64(set.Len())))
	}()

	resolved := p.duration.Or(set.DefaultDuration())
	if resolved.IsFinite() {
		// 在加入之前计数，Finite(0) 会立即到期
		pending.Store(int64(len(p.values)))
	}
	for _, v := range p.values {
		set.Add(v, p.duration)
		out.printf("added %s for %s\n", v, resolved)
	}
	a.logger.Info(ctx, "demo started",
		xlog.Operation("demo"),
		slog.String("set", set.Name()),
		xlog.Count(int64(set.Len())),
		xlog.DurationText(resolved))

	if !resolved.IsFinite() {
		out.printf("no finite values, nothing will expire\n")
		return nil
	}

	wait := a.clock.NewTimer(cmd.Duration("wait"))
	defer wait.Stop()
	select {
	case <-done:
		out.printf("all values expired\n")
	case <-wait.Chan():
		out.printf("wait elapsed, %d values remain\n", set.Len())
	case <-ctx.Done():
		out.printf("interrupted, %d values remain\n", set.Len())
	}
	return nil
}

// onReload 在配置文件变更后重新应用日志级别。expire 配置不会热更新。
func (a *app) onReload(f *xconf.File, err error) {
	ctx := context.Background()
	if err != nil {
		a.logger.Warn(ctx, "config reload failed", xlog.Err(err))
		return
	}
	var lc logConfig
	if err := f.Decode("log", &lc); err != nil {
		a.logger.Warn(ctx, "config reload failed", xlog.Err(err))
		return
	}
	a.applyLogConfig(ctx, lc)
}

func (a *app) applyLogConfig(ctx context.Context, lc logConfig) {
	level, ok, err := lc.level()
	if err != nil {
		a.logger.Warn(ctx, "invalid log level in config", xlog.Err(err))
		return
	}
	if !ok || level == a.logger.GetLevel() {
		return
	}
	a.logger.SetLevel(level)
	a.logger.Info(ctx, "log level updated", slog.String("level", level.String()))
}

// dedup 去重并保持顺序。
func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// syncWriter 串行化到期回调（后台 goroutine）与主流程的输出。
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) printf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, format, args...)
}
