package xretain_test

import (
	"context"
	"fmt"

	"github.com/omeyang/logkit/pkg/xcatalog"
	"github.com/omeyang/logkit/pkg/xretain"
)

// ExampleNewSweeper 演示创建清扫器并执行一次同步清扫。
func ExampleNewSweeper() {
	cat, err := xcatalog.New("/var/log/myapp", "myapp")
	if err != nil {
		fmt.Println("创建编目器失败:", err)
		return
	}

	sweeper, err := xretain.NewSweeper(cat, xretain.Policy{
		MaxFileCount:   5,
		DiskQuotaBytes: 20 << 20, // 20 MiB
	})
	if err != nil {
		fmt.Println("创建清扫器失败:", err)
		return
	}
	defer sweeper.Stop()

	deleted, err := sweeper.Sweep(context.Background())
	if err != nil {
		fmt.Println("清扫失败:", err)
		return
	}
	_ = deleted
}

// ExampleSweeper_Schedule 演示按固定间隔周期清扫。
func ExampleSweeper_Schedule() {
	cat, err := xcatalog.New("/var/log/myapp", "myapp")
	if err != nil {
		return
	}

	sweeper, err := xretain.NewSweeper(cat, xretain.Policy{MaxFileCount: 10})
	if err != nil {
		return
	}
	defer sweeper.Stop()

	if err := sweeper.Schedule("@every 1h"); err != nil {
		fmt.Println("安排周期清扫失败:", err)
	}
}
