package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var namedEncodings = map[string]encoding.Encoding{
	"utf-16le":     xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM),
	"utf-16be":     xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM),
	"gbk":          simplifiedchinese.GBK,
	"gb18030":      simplifiedchinese.GB18030,
	"big5":         traditionalchinese.Big5,
	"shift_jis":    japanese.ShiftJIS,
	"euc-jp":       japanese.EUCJP,
	"euc-kr":       korean.EUCKR,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
}

// 自动检测时依次尝试的编码，中文字幕最常见，放在前面
var candidateEncodings = []encoding.Encoding{
	simplifiedchinese.GBK,
	simplifiedchinese.GB18030,
	traditionalchinese.Big5,
	japanese.ShiftJIS,
	japanese.EUCJP,
	korean.EUCKR,
	charmap.Windows1252,
}

// Decode 把字幕文件内容转换为 UTF-8
//
// name 为 "auto" 或空时先看 BOM，再看是否为合法 UTF-8，最后依次尝试常见编码。
func Decode(data []byte, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		return detectAndDecode(data), nil
	}
	if name == "utf-8" || name == "utf8" {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid utf-8")
		}
		return strings.TrimPrefix(string(data), "\uFEFF"), nil
	}

	enc, ok := namedEncodings[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	text, err := decodeWith(enc, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode input as %s: %w", name, err)
	}
	return text, nil
}

func detectAndDecode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return string(data[3:])
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		if text, err := decodeWith(namedEncodings["utf-16le"], data[2:]); err == nil {
			return text
		}
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		if text, err := decodeWith(namedEncodings["utf-16be"], data[2:]); err == nil {
			return text
		}
	}

	if utf8.Valid(data) {
		return string(data)
	}

	for _, enc := range candidateEncodings {
		text, err := decodeWith(enc, data)
		if err == nil && isReasonableText(text) {
			return text
		}
	}

	// 都失败时按 UTF-8 读取，非法字节替换为 U+FFFD
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	res, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(res) {
		return "", fmt.Errorf("decoder produced invalid utf-8")
	}
	return string(res), nil
}

// isReasonableText 超过 90% 是可打印字符才认为解码正确
func isReasonableText(text string) bool {
	if len(text) == 0 {
		return false
	}

	printable, total := 0, 0
	for _, r := range text {
		total++
		if r != utf8.RuneError && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
			printable++
		}
	}
	return float64(printable)/float64(total) > 0.9
}
