package xmark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// archivedAttr 归档标记的扩展属性名。
// Linux 要求非特权进程使用 user 命名空间；macOS 无命名空间要求，
// 统一使用同一名称以保持跨平台一致。
const archivedAttr = "user.logkit.archived"

// probeAttr 能力探测使用的临时属性名。
const probeAttr = "user.logkit.probe"

// ArchivedInfix 文件名标记实现插入的中缀。
// "app 2024-01-02--03-04-05-006.log" 归档后变为
// "app 2024-01-02--03-04-05-006.archived.log"。
const ArchivedInfix = ".archived"

// Marker 归档状态标记器。
//
// IsArchived 始终做实时文件系统读取（不缓存），因为外部进程可能翻转
// 归档状态。SetArchived 返回操作后的文件路径：属性实现原样返回，
// 文件名实现在重命名后返回新路径，调用方据此更新自己持有的记录。
//
// 所有实现并发安全（无共享可变状态，直接委托文件系统）。
type Marker interface {
	// IsArchived 查询路径对应文件是否已归档。
	// 查询失败（文件不存在、属性读取失败）一律视为未归档。
	IsArchived(path string) bool

	// SetArchived 设置归档状态，返回操作后的文件路径。
	// 幂等：重复设置同一状态是无害的空操作。
	SetArchived(path string, archived bool) (string, error)
}

// Detect 探测目录所在文件系统的扩展属性支持情况，返回合适的 Marker。
//
// 探测方式：在目录本身设置并移除一个临时属性。成功则返回
// AttributeMarker，任何失败（ENOTSUP、权限不足等）都降级为
// FilenameMarker——文件名标记在任何文件系统上都可用。
//
// 设计决策: 探测只在构造期执行一次，结果实现贯穿整个生命周期，
// 避免每次标记操作都重复试错或在调用点散布平台条件分支。
func Detect(dir string) Marker {
	if xattrSupported(dir) {
		return NewAttributeMarker()
	}
	return NewFilenameMarker()
}

// NewAttributeMarker 创建基于扩展属性的标记器。
//
// 属性存在即表示已归档，属性值本身无意义。在不支持扩展属性的平台
// （构建标签排除的系统）上，SetArchived 返回 [ErrUnsupported]。
func NewAttributeMarker() Marker {
	return attributeMarker{}
}

// NewFilenameMarker 创建基于文件名中缀的标记器。
//
// 通过重命名在扩展名前插入/移除 [ArchivedInfix]。重命名保持目录不变，
// 且不会覆盖目标名下的既有文件：先删除陈旧的同名目标（不存在视为成功）。
func NewFilenameMarker() Marker {
	return filenameMarker{}
}

// attributeMarker 扩展属性实现。
type attributeMarker struct{}

func (attributeMarker) IsArchived(path string) bool {
	if path == "" {
		return false
	}
	return getArchivedAttr(path)
}

func (attributeMarker) SetArchived(path string, archived bool) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if archived {
		if err := setArchivedAttr(path); err != nil {
			return path, err
		}
		return path, nil
	}
	if err := removeArchivedAttr(path); err != nil {
		return path, err
	}
	return path, nil
}

// filenameMarker 文件名中缀实现。
type filenameMarker struct{}

func (filenameMarker) IsArchived(path string) bool {
	return HasArchivedInfix(path)
}

func (filenameMarker) SetArchived(path string, archived bool) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if HasArchivedInfix(path) == archived {
		// 已处于目标状态
		return path, nil
	}

	var target string
	if archived {
		target = InsertArchivedInfix(path)
	} else {
		target = StripArchivedInfix(path)
	}

	// 目标名下可能残留陈旧文件（上次崩溃遗留），先删除；不存在视为成功
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return path, fmt.Errorf("%w: remove stale %s: %w", ErrRenameFailed, target, err)
	}
	if err := os.Rename(path, target); err != nil {
		return path, fmt.Errorf("%w: %w", ErrRenameFailed, err)
	}
	return target, nil
}

// HasArchivedInfix 判断路径的文件名是否带有归档中缀。
func HasArchivedInfix(path string) bool {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return strings.HasSuffix(strings.TrimSuffix(name, ext), ArchivedInfix)
}

// InsertArchivedInfix 在扩展名前插入归档中缀。已含中缀时原样返回。
func InsertArchivedInfix(path string) string {
	if HasArchivedInfix(path) {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ArchivedInfix + ext
}

// StripArchivedInfix 移除扩展名前的归档中缀。不含中缀时原样返回。
func StripArchivedInfix(path string) string {
	if !HasArchivedInfix(path) {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(strings.TrimSuffix(path, ext), ArchivedInfix) + ext
}
