package xconf

import "errors"

// 配置加载、解码与监视相关错误。
var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 表示读取配置文件失败。
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 表示配置内容解析失败。
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrDecodeFailed 表示配置解码到目标结构体失败。
	ErrDecodeFailed = errors.New("xconf: failed to decode config")

	// ErrNotFileBacked 表示对从字节数据创建的 File 调用了 Reload 或 Watch。
	ErrNotFileBacked = errors.New("xconf: config is not backed by a file")
)
