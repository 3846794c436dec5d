//go:build !linux && !darwin

package xmark

// 不支持扩展属性的平台（如 Windows）：探测恒为 false，
// Detect 会选择 FilenameMarker。属性操作仅在显式构造
// AttributeMarker 时可达，统一返回 ErrUnsupported。

func xattrSupported(string) bool { return false }

func getArchivedAttr(string) bool { return false }

func setArchivedAttr(string) error { return ErrUnsupported }

func removeArchivedAttr(string) error { return ErrUnsupported }
