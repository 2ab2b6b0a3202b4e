package segment

import (
	"unicode"
	"unicode/utf8"
)

// isCJKTerminal 中日韩句末标点
func isCJKTerminal(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func isTerminalMark(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences 按句末边界切分受保护文本
//
// 先尝试中日韩句末标点，得到两段以上即返回；否则按英文边界切分。都不成功时返回 [text]。
func SplitSentences(text string) []string {
	if parts := splitAfter(text, isCJKTerminal); len(parts) >= 2 {
		return parts
	}
	if parts := splitEnglishSentences(text); len(parts) >= 2 {
		return parts
	}
	return []string{text}
}

// splitEnglishSentences 线性扫描英文句子边界
//
// 边界条件：句末标点前一个字符不是大写字母，其后跟非空的空白，再后面是大写字母
// （占位符以大写标签开头，同样算作大写）。标点留在左侧片段，空白丢弃。
func splitEnglishSentences(text string) []string {
	var parts []string
	start := 0
	prev := rune(-1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		end := i + size
		if !isTerminalMark(r) || isASCIIUpper(prev) {
			prev = r
			i = end
			continue
		}

		j := skipSpace(text, end)
		if j == end || j >= len(text) || (!isASCIIUpper(rune(text[j])) && !isPlaceholderStart(text, j)) {
			prev = r
			i = end
			continue
		}
		// 只在原字符串上按字节切片，非法 UTF-8 字节原样保留
		parts = appendTrimmed(parts, text[start:end])
		start = j
		prev = ' '
		i = j
	}
	return appendTrimmed(parts, text[start:])
}

// skipSpace 返回 i 之后第一个非空白字符的字节位置
func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
