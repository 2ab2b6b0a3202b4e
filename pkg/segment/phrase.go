package segment

// isClauseMark 分句标点：逗号、分号、冒号（含全角）
func isClauseMark(r rune) bool {
	switch r {
	case ',', '，', ';', '；', ':', '：':
		return true
	}
	return false
}

// SplitPhrases 在分句标点之后切分
//
// 切出两段以上且有片段短于 minLen 时放弃切分，避免逗号密集的句子被切得过碎。
func SplitPhrases(text string, minLen int) []string {
	parts := splitAfter(text, isClauseMark)
	if len(parts) == 0 {
		return []string{text}
	}
	if len(parts) > 2 {
		for _, p := range parts {
			if runeLen(p) < minLen {
				return []string{text}
			}
		}
	}
	return parts
}
