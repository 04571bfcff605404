// xexpirectl 是 xexpire 自动过期集合的演示与配置校验工具。
//
// 用法:
//
//	xexpirectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	--log-level    日志级别 debug/info/warn/error (默认: info)
//	--log-format   日志格式 text/json (默认: text)
//	--log-file     日志文件路径，按大小轮转 (默认: stderr)
//
// 命令:
//
//	demo [values...]   创建集合、加入值并打印每一次到期通知
//	config <path>      加载并校验配置文件，打印解析后的 expire 配置
//
// demo 在所有有限时长的值都到期、--wait 超时或收到 SIGINT/SIGTERM 时退出。
// 未给出 values 时生成 --count 个随机 UUID。
// 指定 --config 时同时监视配置文件，log.level 的变更实时生效；
// expire 配置在集合生命周期内固定，变更需重新运行。
//
// 退出码:
//
//	0: 成功
//	1: 运行失败（配置文件无法加载、校验失败等）
//	2: 参数错误（未知 flag、无效时长、缺少参数等）
//
// 示例:
//
//	xexpirectl demo --duration 2s a b c
//	xexpirectl demo --default 1s --count 5
//	xexpirectl --log-level debug demo --config ./xexpire.yaml
//	xexpirectl config ./xexpire.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	os.Exit(run(ctx, os.Args, os.Stdout, os.Stderr))
}

// run 执行命令并把错误映射为退出码。
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	if err := a.command().Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// 框架产生的 ExitCoder（未知命令等）已由 ExitErrHandler 输出
		var exitCoder cli.ExitCoder
		if errors.As(err, &exitCoder) {
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
