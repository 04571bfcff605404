package main

import (
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sony/sonyflake/v2"
)

const (
	idsUUID  = "uuid"
	idsFlake = "flake"
)

// newIDGenerator 返回 demo 自动生成值的函数。
// flake 使用 sonyflake，机器 ID 取进程号低 16 位，只保证单机演示内唯一。
func newIDGenerator(kind string) (func() (string, error), error) {
	switch kind {
	case idsUUID:
		return func() (string, error) { return uuid.NewString(), nil }, nil
	case idsFlake:
		sf, err := sonyflake.New(sonyflake.Settings{
			MachineID: func() (int, error) { return os.Getpid() & 0xffff, nil },
		})
		if err != nil {
			return nil, err
		}
		return func() (string, error) {
			id, err := sf.NextID()
			if err != nil {
				return "", err
			}
			return strconv.FormatInt(id, 10), nil
		}, nil
	default:
		return nil, usagef("--ids 仅支持 %s 或 %s: got %q", idsUUID, idsFlake, kind)
	}
}
