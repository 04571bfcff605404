package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xexpire/pkg/config/xconf"
	"github.com/omeyang/xexpire/pkg/observability/xlog"
	"github.com/omeyang/xexpire/pkg/storage/xexpire"
)

// fileConfig 是配置文件的结构：
//
//	expire:
//	  name: sessions
//	  default_duration: 30s
//	  capacity: 1024
//	log:
//	  level: debug
type fileConfig struct {
	Expire xexpire.Config `koanf:"expire" json:"expire"`
	Log    logConfig      `koanf:"log" json:"log"`
}

type logConfig struct {
	// Level 为空表示沿用命令行 --log-level。
	Level string `koanf:"level" json:"level,omitempty"`
}

// level 返回配置的日志级别；未配置时 ok 为 false。
func (c logConfig) level() (xlog.Level, bool, error) {
	if c.Level == "" {
		return 0, false, nil
	}
	l, err := xlog.ParseLevel(c.Level)
	if err != nil {
		return 0, false, err
	}
	return l, true, nil
}

// loadConfig 加载、解码并校验配置文件。
func loadConfig(path string) (*xconf.File, fileConfig, error) {
	f, err := xconf.Open(path)
	if err != nil {
		return nil, fileConfig{}, err
	}
	cfg, err := decodeConfig(f)
	if err != nil {
		return nil, fileConfig{}, err
	}
	return f, cfg, nil
}

func decodeConfig(f *xconf.File) (fileConfig, error) {
	var cfg fileConfig
	if err := f.Decode("", &cfg); err != nil {
		return fileConfig{}, err
	}
	if err := cfg.Expire.Validate(); err != nil {
		return fileConfig{}, err
	}
	if _, _, err := cfg.Log.level(); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

// resolved 是 config 命令的输出：UseDefault 的默认时长已解析为 Unlimited。
type resolved struct {
	Expire xexpire.Config `json:"expire"`
	Log    logConfig      `json:"log"`
}

func (a *app) configCommand() *cli.Command {
	return &cli.Command{
		Name:         "config",
		Usage:        "加载并校验配置文件，打印解析后的配置",
		ArgsUsage:    "<path>",
		OnUsageError: onUsageError,
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usagef("config 需要且只需要一个配置文件路径")
			}
			_, cfg, err := loadConfig(cmd.Args().First())
			if err != nil {
				return err
			}
			cfg.Expire.DefaultDuration = cfg.Expire.DefaultDuration.Or(xexpire.Unlimited())
			if cfg.Expire.Name == "" {
				cfg.Expire.Name = "default"
			}
			out, err := json.MarshalIndent(resolved(cfg), "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintln(a.stdout, string(out))
			return nil
		},
	}
}
