package segment

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxPlaceholderDigits 占位符编号的最大位数，超出视为格式错误
const maxPlaceholderDigits = 9

// Capture 一次保护产生的捕获记录
type Capture struct {
	Index    int
	Original string
	Kind     PatternKind
}

// ProtectionTable 单次调用内的占位符表
//
// 表只属于一次 Segment 调用，调用结束即丢弃。
type ProtectionTable struct {
	// Text 替换后的工作文本
	Text string
	// Captures 按编号排列的原文
	Captures []Capture

	// resolved 已展开嵌套占位符的原文，与 Captures 一一对应
	resolved []string
}

// Len 返回捕获数量
func (t *ProtectionTable) Len() int {
	return len(t.Captures)
}

// Restore 把文本中的占位符还原为原文
//
// 单次线性扫描，不会再次触发模式匹配。无法识别的占位符原样保留。
func (t *ProtectionTable) Restore(text string) string {
	return t.substitute(text, len(t.resolved))
}

// resolve 按编号顺序展开捕获中的嵌套占位符
//
// 后面的模式可能包住前面的占位符（例如引号内的省略号），而捕获只会引用更小的编号。
func (t *ProtectionTable) resolve() {
	t.resolved = make([]string, 0, len(t.Captures))
	for i, c := range t.Captures {
		if c.Kind == KindReserved {
			t.resolved = append(t.resolved, c.Original)
			continue
		}
		t.resolved = append(t.resolved, t.substitute(c.Original, i))
	}
}

func (t *ProtectionTable) substitute(text string, limit int) string {
	if limit == 0 || !strings.ContainsRune(text, placeholderOpen) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for {
		i := strings.IndexRune(text, placeholderOpen)
		if i < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:i])
		text = text[i:]

		kind, index, width, ok := parsePlaceholder(text)
		if ok && index < limit && t.Captures[index].Kind == kind {
			b.WriteString(t.resolved[index])
			text = text[width:]
			continue
		}
		b.WriteRune(placeholderOpen)
		text = text[utf8.RuneLen(placeholderOpen):]
	}
	return b.String()
}

// placeholder 生成占位符 <U+E000>TAG_n<U+E001>
func placeholder(kind PatternKind, index int) string {
	return string(placeholderOpen) + kind.Tag() + "_" + strconv.Itoa(index) + string(placeholderClose)
}

// parsePlaceholder 解析 text 开头的占位符，返回种类、编号和字节宽度
func parsePlaceholder(text string) (kind PatternKind, index, width int, ok bool) {
	pos := utf8.RuneLen(placeholderOpen)
	if len(text) <= pos || !strings.HasPrefix(text, string(placeholderOpen)) {
		return 0, 0, 0, false
	}

	tagStart := pos
	for pos < len(text) && text[pos] >= 'A' && text[pos] <= 'Z' {
		pos++
	}
	kind, known := tagKinds[text[tagStart:pos]]
	if !known || pos >= len(text) || text[pos] != '_' {
		return 0, 0, 0, false
	}
	pos++

	digitStart := pos
	for pos < len(text) && text[pos] >= '0' && text[pos] <= '9' {
		pos++
	}
	digits := pos - digitStart
	if digits == 0 || digits > maxPlaceholderDigits {
		return 0, 0, 0, false
	}
	if !strings.HasPrefix(text[pos:], string(placeholderClose)) {
		return 0, 0, 0, false
	}

	index, err := strconv.Atoi(text[digitStart:pos])
	if err != nil {
		return 0, 0, 0, false
	}
	return kind, index, pos + utf8.RuneLen(placeholderClose), true
}

// isPlaceholderStart 判断字节位置 i 是否是占位符开头，占位符视为以大写字母开头的记号
func isPlaceholderStart(text string, i int) bool {
	rest := text[i:]
	open := utf8.RuneLen(placeholderOpen)
	return len(rest) > open && strings.HasPrefix(rest, string(placeholderOpen)) && isASCIIUpper(rune(rest[open]))
}

// Protector 受保护模式替换器
//
// 编译后的规则只读，可在多个 goroutine 中并发使用。
type Protector struct {
	rules []rule
}

// NewProtector 创建保护器
func NewProtector(opts ProtectorOptions) *Protector {
	return &Protector{rules: buildRules(opts)}
}

// Protect 依次应用各模式，返回新建的占位符表
func (p *Protector) Protect(text string) *ProtectionTable {
	table := &ProtectionTable{}
	working := text
	for _, r := range p.rules {
		kind := r.kind
		working = r.rewrite(working, func(original string) string {
			index := len(table.Captures)
			table.Captures = append(table.Captures, Capture{
				Index:    index,
				Original: original,
				Kind:     kind,
			})
			return placeholder(kind, index)
		})
	}
	table.Text = working
	table.resolve()
	return table
}
