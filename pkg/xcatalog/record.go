package xcatalog

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/omeyang/logkit/pkg/xmark"
)

// Record 表示一个物理日志文件。
//
// 尺寸、修改时间、创建时间从文件系统元数据惰性读取并缓存，[Record.Reset]
// 使缓存失效。归档状态例外：外部进程可能翻转它，因此 [Record.IsArchived]
// 永远是实时文件系统读取，不做缓存。
//
// 路径只会因归档标记的文件名实现（重命名）而变化，由 [Record.SetArchived]
// 内部维护；调用方不直接修改路径。
type Record struct {
	marker xmark.Marker

	mu      sync.Mutex
	path    string
	size    int64
	modTime time.Time
	created time.Time
	loaded  bool
}

// NewRecord 创建文件记录。marker 为 nil 时降级为文件名中缀标记。
func NewRecord(path string, marker xmark.Marker) *Record {
	if marker == nil {
		marker = xmark.NewFilenameMarker()
	}
	return &Record{marker: marker, path: path}
}

// Path 返回文件当前路径。
func (r *Record) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Name 返回文件名（路径的最后一段）。
func (r *Record) Name() string {
	return filepath.Base(r.Path())
}

// Timestamp 返回文件名内嵌的创建时间戳。
// 解析失败时返回零值和 false，不报错——容错策略由调用方（排序）决定。
func (r *Record) Timestamp() (time.Time, bool) {
	ts, err := TimestampFromName(r.Name())
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Size 返回文件大小（字节），惰性读取并缓存。
func (r *Record) Size() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureStatLocked(); err != nil {
		return 0, err
	}
	return r.size, nil
}

// ModTime 返回文件修改时间，惰性读取并缓存。
func (r *Record) ModTime() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureStatLocked(); err != nil {
		return time.Time{}, err
	}
	return r.modTime, nil
}

// CreationTime 返回文件创建时间，惰性读取并缓存。
// 平台不提供出生时间时降级为能取到的最近似值（见 creationTimeFromInfo）。
func (r *Record) CreationTime() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureStatLocked(); err != nil {
		return time.Time{}, err
	}
	return r.created, nil
}

// Reset 使缓存的文件系统元数据失效，下次访问重新读取。
func (r *Record) Reset() {
	r.mu.Lock()
	r.loaded = false
	r.mu.Unlock()
}

// IsArchived 查询归档状态。实时读取，永不缓存。
func (r *Record) IsArchived() bool {
	return r.marker.IsArchived(r.Path())
}

// SetArchived 设置归档状态。
// 文件名标记实现会重命名文件，记录跟踪新路径并使元数据缓存失效。
func (r *Record) SetArchived(archived bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	newPath, err := r.marker.SetArchived(r.path, archived)
	if newPath != "" && newPath != r.path {
		r.path = newPath
		r.loaded = false
	}
	return err
}

// sortKey 返回排序键：优先文件名时间戳，其次文件创建时间，最后 "现在"。
// 永不失败——无法解析的文件排到最前而不是让排序崩溃。
func (r *Record) sortKey() time.Time {
	if ts, ok := r.Timestamp(); ok {
		return ts
	}
	if created, err := r.CreationTime(); err == nil {
		return created
	}
	return time.Now()
}

// ensureStatLocked 读取并缓存文件系统元数据。调用方必须持有 r.mu。
func (r *Record) ensureStatLocked() error {
	if r.loaded {
		return nil
	}
	info, err := os.Stat(r.path)
	if err != nil {
		return err
	}
	r.size = info.Size()
	r.modTime = info.ModTime()
	r.created = creationTimeFromInfo(info)
	r.loaded = true
	return nil
}
