package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/logkit/pkg/xcatalog"
	"github.com/omeyang/logkit/pkg/xlogconf"
	"github.com/omeyang/logkit/pkg/xretain"
)

// usageError 表示参数错误（退出码 2）。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// createCommands 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createListCommand(),
		createActiveCommand(),
		createArchiveCommand(),
		createPruneCommand(),
	}
}

// resolveCatalog 由全局选项解析出目录编目器。
// --dir/--app 优先；未给出时从 --config 指定的配置文件取缺省值。
func resolveCatalog(cmd *cli.Command) (*xcatalog.Catalog, error) {
	dir := cmd.String("dir")
	app := cmd.String("app")

	if cfgPath := cmd.String("config"); cfgPath != "" && (dir == "" || app == "") {
		cfg, err := xlogconf.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		if dir == "" {
			dir = cfg.Dir
		}
		if app == "" {
			app = cfg.AppID
		}
	}

	if dir == "" {
		return nil, &usageError{msg: "缺少日志目录（--dir 或配置文件）"}
	}
	if app == "" {
		return nil, &usageError{msg: "缺少应用标识（--app 或配置文件）"}
	}
	return xcatalog.New(dir, app)
}

// createListCommand 创建 list 子命令。
func createListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "列出日志文件（最新在前）",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cat, err := resolveCatalog(cmd)
			if err != nil {
				return err
			}
			return cmdList(cat, os.Stdout)
		},
	}
}

// createActiveCommand 创建 active 子命令。
func createActiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "active",
		Usage: "显示当前活跃（未归档）的日志文件路径",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cat, err := resolveCatalog(cmd)
			if err != nil {
				return err
			}
			return cmdActive(cat, os.Stdout)
		},
	}
}

// createArchiveCommand 创建 archive 子命令。
func createArchiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "归档当前活跃的日志文件",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cat, err := resolveCatalog(cmd)
			if err != nil {
				return err
			}
			return cmdArchive(cat, os.Stdout)
		},
	}
}

// createPruneCommand 创建 prune 子命令。
func createPruneCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "按保留策略执行一次清理",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-count",
				Usage: "保留的文件数量上限（0 表示不限制）",
			},
			&cli.Int64Flag{
				Name:  "quota",
				Usage: "磁盘配额字节数（0 表示不限制）",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cat, err := resolveCatalog(cmd)
			if err != nil {
				return err
			}
			policy := xretain.Policy{
				MaxFileCount:   cmd.Int("max-count"),
				DiskQuotaBytes: cmd.Int64("quota"),
			}
			// 未通过 flag 给出策略时回退到配置文件的 retention 段
			if cfgPath := cmd.String("config"); cfgPath != "" && policy == (xretain.Policy{}) {
				cfg, err := xlogconf.Load(cfgPath)
				if err != nil {
					return err
				}
				policy = xretain.Policy{
					MaxFileCount:   cfg.Retention.MaxFileCount,
					DiskQuotaBytes: cfg.Retention.DiskQuotaBytes,
				}
			}
			if err := policy.Validate(); err != nil {
				return &usageError{msg: err.Error()}
			}
			return cmdPrune(ctx, cat, policy, os.Stdout)
		},
	}
}

// cmdList 输出目录中的全部日志文件，最新在前。
func cmdList(cat *xcatalog.Catalog, out io.Writer) error {
	records, err := cat.Records()
	if err != nil {
		return err
	}
	for _, rec := range records {
		state := "active"
		if rec.IsArchived() {
			state = "archived"
		}
		size, err := rec.Size()
		if err != nil {
			size = -1
		}
		fmt.Fprintf(out, "%-8s %12d  %s\n", state, size, rec.Name())
	}
	fmt.Fprintf(out, "共 %d 个文件\n", len(records))
	return nil
}

// cmdActive 输出当前活跃文件路径。无活跃文件时退出码 1。
func cmdActive(cat *xcatalog.Catalog, out io.Writer) error {
	records, err := cat.Records()
	if err != nil {
		return err
	}
	if len(records) == 0 || records[0].IsArchived() {
		fmt.Fprintln(out, "无活跃文件")
		return &exitError{code: 1}
	}
	fmt.Fprintln(out, records[0].Path())
	return nil
}

// cmdArchive 归档当前活跃文件。无活跃文件时是空操作。
func cmdArchive(cat *xcatalog.Catalog, out io.Writer) error {
	records, err := cat.Records()
	if err != nil {
		return err
	}
	if len(records) == 0 || records[0].IsArchived() {
		fmt.Fprintln(out, "无活跃文件，无需归档")
		return nil
	}
	rec := records[0]
	if err := rec.SetArchived(true); err != nil {
		return fmt.Errorf("归档失败: %w", err)
	}
	fmt.Fprintf(out, "已归档: %s\n", rec.Path())
	return nil
}

// cmdPrune 按策略执行一次同步清扫。
func cmdPrune(ctx context.Context, cat *xcatalog.Catalog, policy xretain.Policy, out io.Writer) error {
	sweeper, err := xretain.NewSweeper(cat, policy)
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	deleted, err := sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "已删除 %d 个文件\n", deleted)
	return nil
}
