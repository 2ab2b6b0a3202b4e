package segment

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PatternKind 受保护模式的种类，声明顺序即应用顺序
type PatternKind int

const (
	// KindReserved 输入中已存在的占位符定界符，保证还原是完全的
	KindReserved PatternKind = iota
	KindURL
	KindEmail
	KindFilePath
	KindEllipsisASCII
	KindEllipsisUnicode
	KindAbbreviation
	KindDecimal
	KindTimeStamp
	KindMultiMark
	KindDoubleQuoted
	KindSingleQuoted
	KindCJKQuoted
	KindCJKQuoted2

	kindCount
)

// 占位符定界符，取自私用区，正常字幕文本中不会出现
const (
	placeholderOpen  = '\uE000'
	placeholderClose = '\uE001'
)

var kindTags = [kindCount]string{
	KindReserved:        "RESERVED",
	KindURL:             "URL",
	KindEmail:           "EMAIL",
	KindFilePath:        "FILEPATH",
	KindEllipsisASCII:   "ELLIPSIS",
	KindEllipsisUnicode: "UELLIPSIS",
	KindAbbreviation:    "ABBR",
	KindDecimal:         "DECIMAL",
	KindTimeStamp:       "TIME",
	KindMultiMark:       "MULTIMARK",
	KindDoubleQuoted:    "DQUOTE",
	KindSingleQuoted:    "SQUOTE",
	KindCJKQuoted:       "CORNERQUOTE",
	KindCJKQuoted2:      "WCORNERQUOTE",
}

var kindNames = [kindCount]string{
	KindReserved:        "reserved",
	KindURL:             "url",
	KindEmail:           "email",
	KindFilePath:        "file_path",
	KindEllipsisASCII:   "ellipsis_ascii",
	KindEllipsisUnicode: "ellipsis_unicode",
	KindAbbreviation:    "abbreviation",
	KindDecimal:         "decimal",
	KindTimeStamp:       "timestamp",
	KindMultiMark:       "multi_mark",
	KindDoubleQuoted:    "double_quoted",
	KindSingleQuoted:    "single_quoted",
	KindCJKQuoted:       "cjk_quoted",
	KindCJKQuoted2:      "cjk_quoted2",
}

// tagKinds 由标签反查种类，还原时使用
var tagKinds = func() map[string]PatternKind {
	m := make(map[string]PatternKind, kindCount)
	for k := PatternKind(0); k < kindCount; k++ {
		m[kindTags[k]] = k
	}
	return m
}()

// String 返回种类名称
func (k PatternKind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Tag 返回占位符中使用的标签
func (k PatternKind) Tag() string {
	if k < 0 || k >= kindCount {
		return ""
	}
	return kindTags[k]
}

// DefaultAbbreviations 默认受保护的缩写（不含结尾的点）
var DefaultAbbreviations = []string{
	"Mr", "Mrs", "Ms", "Dr", "Prof", "Sr", "Jr", "St", "Mt", "Ft",
	"Gen", "Col", "Capt", "Lt", "Sgt", "Rev", "Hon",
	"vs", "etc", "Inc", "Ltd", "Co", "Corp", "Dept", "Univ",
	"No", "Vol", "Fig", "approx",
	"Jan", "Feb", "Mar", "Apr", "Jun", "Jul", "Aug", "Sep", "Sept", "Oct", "Nov", "Dec",
	"e.g", "i.e", "a.m", "p.m", "U.S", "U.K", "Ph.D",
}

const placeholderExpr = `\x{E000}[A-Z]+_[0-9]+\x{E001}`

var (
	reReserved        = regexp.MustCompile(`[\x{E000}\x{E001}]`)
	reURL             = regexp.MustCompile(`(?i)(?:https?://|ftp://|www\.)[^\s<>"“”‘’「」『』]+`)
	reEmail           = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)
	reFilePath        = regexp.MustCompile(`(?i)(?:[a-z]:\\|\.{1,2}/|~/|/)?(?:[\w\-]+[/\\])*[\w\-]+\.(?:srt|ass|ssa|vtt|sub|txt|md|json|ya?ml|toml|xml|html?|csv|log|go|py|js|ts|java|cpp|rs|sh|exe|dll|zip|tar|gz|pdf|docx?|xlsx?|pptx?|png|jpe?g|gif|svg|mp3|mp4|mkv|avi|mov|wav|flac)\b`)
	reEllipsisASCII   = regexp.MustCompile(`\.{3,}|\.(?: \.){2,}`)
	reEllipsisUnicode = regexp.MustCompile(`[…⋯]+`)
	reDecimal         = regexp.MustCompile(`\d+(?:,\d{3})+(?:\.\d+)?|\d+\.\d+`)
	reTimeStamp       = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2}\b|:` + placeholderExpr + `|\b)`)
	reMultiMark       = regexp.MustCompile(`[!?！？]{2,}`)
	reDoubleQuoted    = regexp.MustCompile(`"[^"]*"|“[^“”]*”`)
	reCJKQuoted       = regexp.MustCompile(`「[^」]*」`)
	reCJKQuoted2      = regexp.MustCompile(`『[^』]*』`)
)

// urlTrailing URL 末尾不属于链接本身的标点
const urlTrailing = ".,;:!?)]}'。，！？；："

// rewriteFunc 对文本执行一次模式替换，emit 为匹配到的原文生成占位符
type rewriteFunc func(text string, emit func(original string) string) string

// rule 保护规则
type rule struct {
	kind    PatternKind
	rewrite rewriteFunc
}

func regexpRewrite(re *regexp.Regexp) rewriteFunc {
	return func(text string, emit func(string) string) string {
		return re.ReplaceAllStringFunc(text, emit)
	}
}

// rewriteURL 保护链接，但把句末标点留在占位符之外
func rewriteURL(text string, emit func(string) string) string {
	return reURL.ReplaceAllStringFunc(text, func(match string) string {
		core := strings.TrimRight(match, urlTrailing)
		if core == "" {
			return match
		}
		return emit(core) + match[len(core):]
	})
}

// abbreviationRewrite 根据缩写列表构建匹配器
func abbreviationRewrite(abbreviations []string) rewriteFunc {
	seen := make(map[string]struct{}, len(abbreviations))
	quoted := make([]string, 0, len(abbreviations))
	for _, a := range abbreviations {
		a = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(a), "."))
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		quoted = append(quoted, regexp.QuoteMeta(a))
	}
	if len(quoted) == 0 {
		return func(text string, _ func(string) string) string { return text }
	}
	// 长的在前，保证结果与列表顺序无关
	sort.Slice(quoted, func(i, j int) bool {
		if len(quoted[i]) != len(quoted[j]) {
			return len(quoted[i]) > len(quoted[j])
		}
		return quoted[i] < quoted[j]
	})
	return regexpRewrite(regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\.`))
}

// quotePairs 单引号类的开闭引号
var quotePairs = [][2]rune{{'\'', '\''}, {'‘', '’'}}

// rewriteSingleQuoted 线性扫描单引号片段
//
// 开引号前不能是字母或数字，闭引号后不能是字母或数字，这样 you're、dogs' 之类的撇号
// 不会被当作引号。
func rewriteSingleQuoted(text string, emit func(string) string) string {
	for _, pair := range quotePairs {
		text = rewriteQuotePair(text, pair[0], pair[1], emit)
	}
	return text
}

func rewriteQuotePair(text string, open, close rune, emit func(string) string) string {
	if !strings.ContainsRune(text, open) {
		return text
	}

	var b strings.Builder
	last := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r != open || !isQuoteOpener(text, i, size) {
			i += size
			continue
		}

		end, resume := findQuoteCloser(text, i+size, close)
		if end < 0 {
			if resume >= len(text) {
				break
			}
			i = resume
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString(emit(text[i:end]))
		last = end
		i = end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func isQuoteOpener(text string, i, size int) bool {
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if isWordRune(prev) {
			return false
		}
	}
	if i+size >= len(text) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(text[i+size:])
	return !unicode.IsSpace(next)
}

// findQuoteCloser 返回闭引号之后的字节位置；找不到时 end 为 -1，resume 为扫描停下的位置
func findQuoteCloser(text string, from int, close rune) (end, resume int) {
	for j := from; j < len(text); {
		r, size := utf8.DecodeRuneInString(text[j:])
		if r == '\n' {
			return -1, j
		}
		if r == close && j > from {
			prev, _ := utf8.DecodeLastRuneInString(text[:j])
			after := j + size
			nextOK := after >= len(text)
			if !nextOK {
				next, _ := utf8.DecodeRuneInString(text[after:])
				nextOK = !isWordRune(next)
			}
			if nextOK && !unicode.IsSpace(prev) {
				return after, after
			}
		}
		j += size
	}
	return -1, len(text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ProtectorOptions 保护器选项
type ProtectorOptions struct {
	ProtectURLs        bool
	ProtectEmails      bool
	ProtectFilePaths   bool
	ExtraAbbreviations []string
}

// buildRules 按固定顺序构建保护规则
func buildRules(opts ProtectorOptions) []rule {
	abbreviations := make([]string, 0, len(DefaultAbbreviations)+len(opts.ExtraAbbreviations))
	abbreviations = append(abbreviations, DefaultAbbreviations...)
	abbreviations = append(abbreviations, opts.ExtraAbbreviations...)

	rules := []rule{{KindReserved, regexpRewrite(reReserved)}}
	if opts.ProtectURLs {
		rules = append(rules, rule{KindURL, rewriteURL})
	}
	if opts.ProtectEmails {
		rules = append(rules, rule{KindEmail, regexpRewrite(reEmail)})
	}
	if opts.ProtectFilePaths {
		rules = append(rules, rule{KindFilePath, regexpRewrite(reFilePath)})
	}
	return append(rules,
		rule{KindEllipsisASCII, regexpRewrite(reEllipsisASCII)},
		rule{KindEllipsisUnicode, regexpRewrite(reEllipsisUnicode)},
		rule{KindAbbreviation, abbreviationRewrite(abbreviations)},
		rule{KindDecimal, regexpRewrite(reDecimal)},
		rule{KindTimeStamp, regexpRewrite(reTimeStamp)},
		rule{KindMultiMark, regexpRewrite(reMultiMark)},
		rule{KindDoubleQuoted, regexpRewrite(reDoubleQuoted)},
		rule{KindSingleQuoted, rewriteSingleQuoted},
		rule{KindCJKQuoted, regexpRewrite(reCJKQuoted)},
		rule{KindCJKQuoted2, regexpRewrite(reCJKQuoted2)},
	)
}
