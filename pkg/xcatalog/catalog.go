package xcatalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/logkit/pkg/xmark"
)

const (
	// dirPerm 日志目录权限（所有者读写执行，组读执行）。
	dirPerm = 0o750

	// filePerm 日志文件权限（仅所有者读写）。
	filePerm = 0o600

	// maxCreateFailures 非冲突性创建失败的重试上限。
	// 冲突（EEXIST）不计入——冲突由计数器递增解决，不受此上限约束。
	maxCreateFailures = 5
)

// Catalog 日志目录编目器。
//
// 对目录状态做无副作用的快照式操作（枚举、排序），外加原子文件创建。
// 不持有任何文件句柄，不缓存目录状态——目录列表永远是事实来源。
// 并发安全：所有字段构造后只读。
type Catalog struct {
	dir    string
	appID  string
	marker xmark.Marker
}

// Option Catalog 配置选项。
type Option func(*Catalog)

// WithMarker 指定归档标记实现。
// 默认通过 [xmark.Detect] 按文件系统能力探测选择。传入 nil 将被忽略。
func WithMarker(m xmark.Marker) Option {
	return func(c *Catalog) {
		if m != nil {
			c.marker = m
		}
	}
}

// New 创建目录编目器。
//
// dir 不存在时自动创建（权限 0750）。appID 不能为空，且不能包含路径
// 分隔符或空字节——它是文件名的第一段。配置错误在构造期拒绝。
func New(dir, appID string, opts ...Option) (*Catalog, error) {
	if dir == "" {
		return nil, ErrEmptyDir
	}
	if appID == "" {
		return nil, ErrEmptyAppID
	}
	if strings.ContainsAny(appID, "/\\\x00") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAppID, appID)
	}

	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("xcatalog: create directory %s: %w", dir, err)
	}

	c := &Catalog{dir: dir, appID: appID}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.marker == nil {
		c.marker = xmark.Detect(dir)
	}
	return c, nil
}

// Dir 返回日志目录。
func (c *Catalog) Dir() string { return c.dir }

// AppID 返回应用标识。
func (c *Catalog) AppID() string { return c.appID }

// Marker 返回归档标记实现。
func (c *Catalog) Marker() xmark.Marker { return c.marker }

// ListCandidates 枚举目录中属于本应用的日志文件名。
//
// 匹配规则：前缀 "<appID> "、后缀 ".log"；归档中缀（文件名编码归档状态
// 的平台）在匹配前剥离，因此归档文件同样是候选。目录项被跳过。
func (c *Catalog) ListCandidates() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("xcatalog: read directory %s: %w", c.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if c.isCandidate(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// isCandidate 判断文件名是否符合本应用的日志命名约定。
func (c *Catalog) isCandidate(name string) bool {
	stripped := xmark.StripArchivedInfix(name)
	return strings.HasPrefix(stripped, c.appID+" ") && strings.HasSuffix(stripped, LogFileExt)
}

// Records 返回目录中所有候选文件的记录，按时间戳降序（最新在前）。
//
// 排序键优先取文件名内嵌时间戳，解析失败降级为文件创建时间，再失败按
// "现在" 处理——排序永不报错，无法解析的文件排到最前（见包文档）。
func (c *Catalog) Records() ([]*Record, error) {
	names, err := c.ListCandidates()
	if err != nil {
		return nil, err
	}

	type keyed struct {
		rec *Record
		key time.Time
	}
	// 排序键预先计算一次，避免排序比较中反复 stat
	items := make([]keyed, len(names))
	for i, name := range names {
		rec := NewRecord(filepath.Join(c.dir, name), c.marker)
		items[i] = keyed{rec: rec, key: rec.sortKey()}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].key.After(items[j].key)
	})

	records := make([]*Record, len(items))
	for i, it := range items {
		records[i] = it.rec
	}
	return records, nil
}

// NewFileName 以当前时间生成新日志文件名："<appID> <时间戳>.log"。
func (c *Catalog) NewFileName() string {
	return c.appID + " " + FormatTimestamp(time.Now()) + LogFileExt
}

// CreateFile 原子创建一个新的空日志文件（可选写入头部字节），返回路径。
//
// 命名冲突（时钟精度粗于创建频率）通过在扩展名前追加 " 2"、" 3"…
// 计数器解决，冲突重试不设次数上限；非冲突性失败（权限、磁盘满等）
// 经 retry-go 退避重试，累计 5 次后返回 [ErrCreateExhausted]。
func (c *Catalog) CreateFile(header []byte) (string, error) {
	base := c.NewFileName()
	counter := 1

	var created string
	err := retry.New(
		retry.Attempts(maxCreateFailures),
		retry.Delay(10*time.Millisecond),
		retry.MaxDelay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	).Do(func() error {
		for {
			path := filepath.Join(c.dir, counterName(base, counter))
			f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
			if errors.Is(err, fs.ErrExist) {
				// 冲突：递增计数器换个名字再试，不消耗重试额度
				counter++
				continue
			}
			if err != nil {
				return err
			}

			if len(header) > 0 {
				if _, werr := f.Write(header); werr != nil {
					_ = f.Close()
					_ = os.Remove(path)
					return werr
				}
			}
			if cerr := f.Close(); cerr != nil {
				return cerr
			}
			created = path
			return nil
		}
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreateExhausted, err)
	}
	return created, nil
}

// counterName 在扩展名前插入冲突计数器。counter 为 1 时返回原名。
func counterName(name string, counter int) string {
	if counter <= 1 {
		return name
	}
	return fmt.Sprintf("%s %d%s", strings.TrimSuffix(name, LogFileExt), counter, LogFileExt)
}
