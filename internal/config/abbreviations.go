package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// AbbreviationList 额外缩写列表文件
//
//	abbreviations = ["Adm", "Gov", "Rep"]
type AbbreviationList struct {
	Abbreviations []string `toml:"abbreviations"`
}

// LoadAbbreviations 加载 TOML 格式的缩写列表
func LoadAbbreviations(path string) (*AbbreviationList, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("abbreviations file not found: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read abbreviations file: %w", err)
	}

	list := &AbbreviationList{}
	if err := toml.Unmarshal(content, list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal abbreviations: %w", err)
	}
	if len(list.Abbreviations) == 0 {
		return nil, fmt.Errorf("abbreviations file %s contains no entries", path)
	}
	return list, nil
}
