// logkitctl 是日志目录的命令行维护工具。
//
// 用法:
//
//	logkitctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-d, --dir     日志目录
//	-a, --app     应用标识
//	-c, --config  配置文件路径（YAML/JSON，提供 dir 与 app 的缺省值）
//
// 命令:
//
//	list           列出目录中的日志文件（最新在前）
//	active         显示当前活跃（未归档）的日志文件
//	archive        归档当前活跃的日志文件
//	prune          按保留策略执行一次清理
//	help           显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败（active 命令: 无活跃文件）
//	2: 参数错误（缺少目录/应用标识、未知命令等）
//
// 示例:
//
//	logkitctl -d /var/log/myapp -a myapp list
//	logkitctl -d /var/log/myapp -a myapp active
//	logkitctl -c /etc/myapp/logkit.yaml prune --max-count 7
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "logkitctl",
		Usage:   "日志目录维护工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "日志目录",
			},
			&cli.StringFlag{
				Name:    "app",
				Aliases: []string{"a"},
				Usage:   "应用标识",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run() int {
	app := createApp()

	if err := app.Run(context.Background(), os.Args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
