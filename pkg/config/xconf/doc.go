// Package xconf 提供基于 koanf 的最小化配置加载：YAML/JSON 解析、结构体解码与热重载。
//
// # 加载
//
//   - Open(path)：按扩展名（.yaml/.yml/.json）读取文件
//   - Parse(data, format)：从字节数据解析，不支持重载
//
// 不负责配置治理（必选字段、默认值注入、环境变量覆盖），这些由调用方在 Decode 后完成。
//
// # 解码
//
// Decode 使用 koanf 的 mapstructure 解码，字符串会经过 time.Duration 与
// encoding.TextUnmarshaler 钩子，因此可以直接解码到 xexpire.StorageDuration、
// xlog.Level 这类自定义文本类型。
//
// # 热重载
//
// Watch 基于 fsnotify 监视文件所在目录，内置防抖，阻塞直到 ctx 结束，
// 适合作为 errgroup 中的一个任务运行：
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(func() error {
//	    return f.Watch(ctx, func(f *xconf.File, err error) {
//	        // 读取新配置
//	    })
//	})
//
// 每次防抖触发的重载按 WithReloadRetry 重试（基于 retry-go，默认 3 次、间隔 50ms），
// 以跨过编辑器保存时文件短暂缺失或写了一半的窗口。
// Reload 失败时保留旧内容；Revision 记录成功加载的次数。
package xconf
