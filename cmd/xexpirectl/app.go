package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xexpire/pkg/observability/xlog"
)

const (
	defaultCount = 3
	defaultWait  = 30 * time.Second
)

// usageError 表示参数错误，映射为退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// onUsageError 把框架的 flag 解析错误统一包装为 usageError。
func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}

// app 持有一次运行的输出目标与日志实例。
type app struct {
	stdout io.Writer
	stderr io.Writer
	clock  clockwork.Clock

	logger  xlog.LoggerWithLevel
	cleanup func() error
}

func (a *app) command() *cli.Command {
	if a.clock == nil {
		a.clock = clockwork.NewRealClock()
	}
	return &cli.Command{
		Name:      "xexpirectl",
		Usage:     "xexpire 自动过期集合演示与配置校验工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "日志级别 (debug/info/warn/error)", Value: "info"},
			&cli.StringFlag{Name: "log-format", Usage: "日志格式 (text/json)", Value: "text"},
			&cli.StringFlag{Name: "log-file", Usage: "日志文件路径（按大小轮转），默认输出到 stderr"},
		},
		Before:       a.before,
		After:        a.after,
		OnUsageError: onUsageError,
		Commands: []*cli.Command{
			a.demoCommand(),
			a.configCommand(),
		},
		// 禁止 urfave/cli 直接调用 os.Exit，由 run 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(a.stderr, err)
			}
		},
	}
}

// before 按全局 flag 构建 logger。
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	b := xlog.New().
		SetOutput(a.stderr).
		SetLevelString(cmd.String("log-level")).
		SetFormat(cmd.String("log-format"))
	if file := cmd.String("log-file"); file != "" {
		b.SetRotation(file, xlog.Rotation{})
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return ctx, &usageError{err: err}
	}
	a.logger, a.cleanup = logger, cleanup
	return ctx, nil
}

func (a *app) after(context.Context, *cli.Command) error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}

// setupSignalHandler 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
