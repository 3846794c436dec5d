package xroll_test

import (
	"fmt"
	"time"

	"github.com/omeyang/logkit/pkg/xcatalog"
	"github.com/omeyang/logkit/pkg/xroll"
)

// ExampleNew 演示创建按大小和时长双重滚动的写入器。
func ExampleNew() {
	cat, err := xcatalog.New("/var/log/myapp", "myapp")
	if err != nil {
		fmt.Println("创建编目器失败:", err)
		return
	}

	w, err := xroll.New(cat,
		xroll.WithMaxFileSize(16<<20),            // 单文件 16 MiB
		xroll.WithRollingFrequency(24*time.Hour), // 每天至少滚动一次
		xroll.WithReuseExistingFiles(true),       // 接续上次会话的文件
	)
	if err != nil {
		fmt.Println("创建写入器失败:", err)
		return
	}
	defer w.Close()

	w.Write([]byte("service started\n"))
	w.Flush()
}

// ExampleWriter_ForceRoll 演示环境变化时的强制滚动。
func ExampleWriter_ForceRoll() {
	cat, err := xcatalog.New("/var/log/myapp", "myapp")
	if err != nil {
		return
	}
	w, err := xroll.New(cat)
	if err != nil {
		return
	}
	defer w.Close()

	// 应用切换到后台等环境事件后，当前文件立即归档，
	// 新文件在下次写入时创建。
	w.ForceRoll()
}
