package xcatalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/omeyang/logkit/pkg/xmark"
)

// 时间戳格式常量。
//
// 秒级部分使用 Go 布局，毫秒部分以 "-SSS" 追加——Go 的布局语法只认
// ".000" 形式的小数秒，连字符分隔的毫秒需要手工拼接/解析。
const (
	// secondsLayout 秒级精度布局，定宽 19 字符。
	secondsLayout = "2006-01-02--15-04-05"

	// timestampLen 完整时间戳长度："<秒级>-SSS"。
	timestampLen = len(secondsLayout) + 4

	// LogFileExt 日志文件扩展名。
	LogFileExt = ".log"
)

// FormatTimestamp 将时间格式化为文件名内嵌时间戳。
// 定宽、字典序与时间序一致，毫秒精度。使用本地时区。
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s-%03d", t.Format(secondsLayout), t.Nanosecond()/int(time.Millisecond))
}

// ParseTimestamp 解析文件名内嵌时间戳。
// 输入必须是 FormatTimestamp 产出的精确形式，否则返回 [ErrBadTimestamp]。
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) != timestampLen || s[len(secondsLayout)] != '-' {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}

	sec, err := time.ParseInLocation(secondsLayout, s[:len(secondsLayout)], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrBadTimestamp, s, err)
	}

	var ms int
	for _, c := range []byte(s[len(secondsLayout)+1:]) {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
		}
		ms = ms*10 + int(c-'0')
	}

	return sec.Add(time.Duration(ms) * time.Millisecond), nil
}

// TimestampFromName 从日志文件名中提取并解析时间戳。
//
// 文件名形如 "<appID> <时间戳>[ <冲突计数器>][.archived].log"。appID 自身
// 可能包含空格，而时间戳片段不含空格，因此取最后一个空格之后的部分；
// 该片段是纯数字的冲突计数器时再向前取一段。归档中缀在解析前剥离，
// 以兼容文件名编码归档状态的平台。
func TimestampFromName(name string) (time.Time, error) {
	base := strings.TrimSuffix(xmark.StripArchivedInfix(name), LogFileExt)
	i := strings.LastIndexByte(base, ' ')
	if i < 0 {
		return time.Time{}, fmt.Errorf("%w: no timestamp segment in %q", ErrBadTimestamp, name)
	}
	if isCounter(base[i+1:]) {
		base = base[:i]
		if i = strings.LastIndexByte(base, ' '); i < 0 {
			return time.Time{}, fmt.Errorf("%w: no timestamp segment in %q", ErrBadTimestamp, name)
		}
	}
	return ParseTimestamp(base[i+1:])
}

// isCounter 判断片段是否为冲突计数器（短于时间戳的纯数字串）。
func isCounter(s string) bool {
	if s == "" || len(s) >= timestampLen {
		return false
	}
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
