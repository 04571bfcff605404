package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf 根据文件扩展名推断格式（.yaml/.yml 或 .json）。
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// File 是一份已解析的配置。
//
// 并发安全：Reload 原子替换内部 koanf 实例，Decode 总是读取某一次完整加载的结果。
type File struct {
	path   string // 为空表示来自字节数据
	format Format
	opts   *options

	reloadMu sync.Mutex // 串行化 Reload，防止旧内容覆盖新内容
	mu       sync.RWMutex
	k        *koanf.Koanf
	rev      uint64
}

// Open 读取并解析配置文件，格式由扩展名决定。空文件得到空配置。
func Open(path string, opts ...Option) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f := newFile(path, format, opts)
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse 从字节数据解析配置，适用于内嵌配置或 ConfigMap 内容。
// 空数据得到空配置。这样创建的 File 不支持 Reload 与 Watch。
func Parse(data []byte, format Format, opts ...Option) (*File, error) {
	if format != FormatYAML && format != FormatJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	f := newFile("", format, opts)
	k, err := f.load(data)
	if err != nil {
		return nil, err
	}
	f.k = k
	return f, nil
}

func newFile(path string, format Format, opts []Option) *File {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &File{path: path, format: format, opts: o}
}

// Path 返回配置文件路径；来自字节数据时为空。
func (f *File) Path() string { return f.path }

// Format 返回配置格式。
func (f *File) Format() Format { return f.format }

// Revision 返回成功加载的次数。Open 之后为 1，每次成功 Reload 加 1。
func (f *File) Revision() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rev
}

// Exists 报告配置中是否存在 key。
func (f *File) Exists(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.k.Exists(key)
}

// Decode 把 path 处的配置解码到 target；path 为空时解码整个配置。
//
// 字符串值会经过 encoding.TextUnmarshaler，因此实现了 UnmarshalText 的类型
// （例如 xexpire.StorageDuration、xlog.Level）可以直接作为字段类型。
// path 不存在时 target 保持不变。
func (f *File) Decode(path string, target any) error {
	f.mu.RLock()
	k := f.k
	f.mu.RUnlock()

	if err := k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: f.opts.tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return nil
}

// Reload 重新读取配置文件。失败时保留原有内容。
func (f *File) Reload() error {
	if f.path == "" {
		return ErrNotFileBacked
	}

	f.reloadMu.Lock()
	defer f.reloadMu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, err := f.load(data)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.k = k
	f.rev++
	f.mu.Unlock()
	return nil
}

func (f *File) load(data []byte) (*koanf.Koanf, error) {
	k := koanf.New(f.opts.delim)
	if len(data) == 0 {
		return k, nil
	}

	var parser koanf.Parser
	switch f.format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, ErrUnsupportedFormat
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}
