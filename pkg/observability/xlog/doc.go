// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、文件轮转）
//   - 动态级别调整（运行时热更新，派生 logger 同步生效）
//   - 强制 context 传递，方法签名只接受 slog.Attr
//   - Discard：组件的默认 logger，不产生任何输出
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，Build 返回该错误）：
//
//	logger, cleanup, err := xlog.New().
//	    SetLevelString("debug").
//	    SetFormat("json").
//	    SetRotation("/var/log/app.log", xlog.Rotation{MaxSizeMB: 50}).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
// 文件轮转基于 lumberjack，零值参数使用默认值（100MB、7 个备份、30 天）。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// 可通过 [ParseLevel] 从字符串解析。Level 实现 encoding.TextMarshaler/TextUnmarshaler，
// 配置文件可直接写级别名。
//
// # 便捷属性
//
// [Err]、[Duration]、[Component]、[Operation]、[Count]、[Value]。
//
// [Duration] 输出人类可读格式（如 "5s"、"1m30s"）。
//
// # 派生 Logger 与级别控制
//
// [Logger.With] 返回 [Logger] 接口（不含 [Leveler]）。
// 派生 logger 共享父级的 LevelVar，动态级别变更会同步生效。
package xlog
