package xretain

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/logkit/pkg/xcatalog"
)

// defaultDeleteLimit 默认删除并发上限。
// 删除是小 IO，少量并发即可掩盖延迟；过高并发对机械盘反而有害。
const defaultDeleteLimit = 4

// SweeperOption Sweeper 配置选项。
type SweeperOption func(*Sweeper)

// WithLogger 设置内部诊断日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略，保持使用默认值。
func WithLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnDeleted 设置文件删除通知回调。
// 回调在清扫所在的后台上下文执行，属尽力而为通知，
// 与后续写入无顺序保证；回调不得执行耗时操作。
func WithOnDeleted(fn func(path string)) SweeperOption {
	return func(s *Sweeper) {
		s.onDeleted = fn
	}
}

// WithDeleteLimit 设置单次清扫的删除并发上限。
// 默认值 4。非正值将被忽略。
func WithDeleteLimit(n int) SweeperOption {
	return func(s *Sweeper) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Sweeper 保留策略执行器。
//
// 清扫由三类事件触发：策略变更（[Sweeper.SetPolicy]）、新文件创建
// （调用方接 [Sweeper.TriggerSweep]）、可选的 cron 周期任务
// （[Sweeper.Schedule]）。清扫只操作快照记录和已归档文件，
// 不触碰写入器拥有的状态。
type Sweeper struct {
	cat       *xcatalog.Catalog
	logger    *slog.Logger
	onDeleted func(string)
	limit     int

	mu     sync.Mutex
	policy Policy
	cron   *cron.Cron

	stopped atomic.Bool
	wg      sync.WaitGroup
}

// NewSweeper 创建清扫器。策略校验失败或 cat 为 nil 时报错。
func NewSweeper(cat *xcatalog.Catalog, policy Policy, opts ...SweeperOption) (*Sweeper, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	s := &Sweeper{
		cat:    cat,
		logger: slog.Default(),
		limit:  defaultDeleteLimit,
		policy: policy,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Policy 返回当前策略。
func (s *Sweeper) Policy() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// SetPolicy 更新策略并触发一次异步清扫。
//
// 设计决策: 不依赖属性观察机制——setter 更新状态后直接入队依赖动作，
// 副作用显式可见。校验失败时保持旧策略不变。
func (s *Sweeper) SetPolicy(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()

	s.TriggerSweep()
	return nil
}

// TriggerSweep 触发一次异步清扫，立即返回。
// 新文件创建后调用，避免在写路径上做 stat 和删除。
// Stop 之后的触发是无害的空操作。
func (s *Sweeper) TriggerSweep() {
	if s.stopped.Load() {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Warn("log retention sweep failed", slog.Any("error", err))
		}
	}()
}

// Sweep 同步执行一次清扫，返回成功删除的文件数。
//
// 单个文件删除失败记录日志后继续（不计入返回值也不中断）；
// 仅目录枚举失败返回错误。
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	records, err := s.cat.Records()
	if err != nil {
		return 0, err
	}

	victims := Plan(records, s.Policy())
	if len(victims) == 0 {
		return 0, nil
	}

	var deleted atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for _, rec := range victims {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			path := rec.Path()
			if err := os.Remove(path); err != nil {
				if os.IsNotExist(err) {
					// 其他进程或并发清扫已删除，视为成功
					deleted.Add(1)
					return nil
				}
				// 失败不中断其余删除
				s.logger.Warn("delete log file failed",
					slog.String("path", path), slog.Any("error", err))
				return nil
			}
			deleted.Add(1)
			s.logger.Debug("log file deleted", slog.String("path", path))
			if s.onDeleted != nil {
				s.onDeleted(path)
			}
			return nil
		})
	}

	_ = g.Wait() // 所有删除函数都返回 nil，Wait 仅用于汇合
	return int(deleted.Load()), ctx.Err()
}

// Schedule 按 cron 表达式安排周期清扫（如 "@every 1h"）。
// 重复调用返回 [ErrAlreadyScheduled]。表达式非法立即报错，不启动任务。
func (s *Sweeper) Schedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return ErrAlreadyScheduled
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Warn("scheduled retention sweep failed", slog.Any("error", err))
		}
	}); err != nil {
		return err
	}

	c.Start()
	s.cron = c
	return nil
}

// Stop 停止周期任务并等待所有在途清扫完成。
// 可安全地重复调用；未 Schedule 过时同样安全。
func (s *Sweeper) Stop() {
	s.stopped.Store(true)

	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		// 等待 cron 触发的在途任务结束
		<-c.Stop().Done()
	}
	s.wg.Wait()
}
