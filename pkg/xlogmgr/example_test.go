package xlogmgr_test

import (
	"fmt"
	"time"

	"github.com/omeyang/logkit/pkg/xlogmgr"
	"github.com/omeyang/logkit/pkg/xretain"
)

// ExampleNew 演示完整的日志子系统组装：按大小和时长滚动，
// 按数量和配额保留。
func ExampleNew() {
	m, err := xlogmgr.New("/var/log/myapp", "myapp",
		xlogmgr.WithMaxFileSize(16<<20),
		xlogmgr.WithRollingFrequency(24*time.Hour),
		xlogmgr.WithRetentionPolicy(xretain.Policy{
			MaxFileCount:   7,
			DiskQuotaBytes: 100 << 20,
		}),
		xlogmgr.WithSweepSchedule("@every 1h"),
	)
	if err != nil {
		fmt.Println("创建管理器失败:", err)
		return
	}

	if err := m.Start(); err != nil {
		fmt.Println("启动失败:", err)
		return
	}
	defer m.Stop()

	m.WriteLog("net", "connection established")
	m.WriteLog("db", "migration complete")
}

// ExampleSetDefault 演示在进程组装点注册默认实例后，
// 各处通过包级函数记日志。
func ExampleSetDefault() {
	m, err := xlogmgr.New("/var/log/myapp", "myapp")
	if err != nil {
		return
	}
	xlogmgr.SetDefault(m)

	if err := xlogmgr.Start(); err != nil {
		return
	}
	defer xlogmgr.Stop()

	xlogmgr.WriteLog("boot", "service ready")
}
