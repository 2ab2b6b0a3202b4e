package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/go-subtitle-segmenter/pkg/segment"
)

// Config 保存分行工具的所有配置
type Config struct {
	// 切分引擎
	ShortCircuitLength int     `mapstructure:"short_circuit_length"` // 不超过此长度直接原样返回
	WrapThreshold      int     `mapstructure:"wrap_threshold"`       // 超过此长度才尝试按词折行
	MaxLineLength      int     `mapstructure:"max_line_length"`      // 折行时每行最大字符数
	PhraseMinLength    int     `mapstructure:"phrase_min_length"`    // 分句片段最小长度
	MinSegmentLength   int     `mapstructure:"min_segment_length"`   // 短片段阈值
	ShortSegmentRatio  float64 `mapstructure:"short_segment_ratio"`  // 短片段占比上限
	BalanceMinRatio    float64 `mapstructure:"balance_min_ratio"`    // 长度均衡下限
	BalanceMaxRatio    float64 `mapstructure:"balance_max_ratio"`    // 长度均衡上限
	ProtectURLs        bool    `mapstructure:"protect_urls"`
	ProtectEmails      bool    `mapstructure:"protect_emails"`
	ProtectFilePaths   bool    `mapstructure:"protect_file_paths"`
	AbbreviationsFile  string  `mapstructure:"abbreviations_file"` // 额外缩写列表（TOML）

	// 显示框
	BoxWidth         int `mapstructure:"box_width"`         // 字幕框宽度（显示单元格）
	DisplayThreshold int `mapstructure:"display_threshold"` // 超过此字符数才需要分行

	// 文件处理
	Concurrency   int    `mapstructure:"concurrency"`    // 并行处理的字幕条数
	InputEncoding string `mapstructure:"input_encoding"` // 输入文件编码，auto 为自动检测

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"` // 详细模式，使用控制台日志格式
}

// SupportedEncodings 可识别的输入编码名称
var SupportedEncodings = []string{
	"auto", "utf-8", "utf-16le", "utf-16be",
	"gbk", "gb18030", "big5", "shift_jis", "euc-jp", "euc-kr",
	"windows-1252", "iso-8859-1",
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".segmenter")
		v.SetConfigType("yaml")
	}

	// 读取环境变量
	v.AutomaticEnv()
	v.SetEnvPrefix("SEGMENTER")

	if err := v.ReadInConfig(); err != nil {
		// 找不到配置文件时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// 相对路径按配置文件所在目录解析
	if config.AbbreviationsFile != "" && !filepath.IsAbs(config.AbbreviationsFile) {
		if used := v.ConfigFileUsed(); used != "" {
			config.AbbreviationsFile = filepath.Join(filepath.Dir(used), config.AbbreviationsFile)
		}
	}

	return &config, nil
}

// SaveConfig 将配置保存到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configPath = filepath.Join(home, ".segmenter.yaml")
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.MergeConfigMap(structToMap(config)); err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return v.WriteConfig()
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	engine := segment.DefaultConfig()
	return &Config{
		ShortCircuitLength: engine.ShortCircuitLength,
		WrapThreshold:      engine.WrapThreshold,
		MaxLineLength:      engine.MaxLineLength,
		PhraseMinLength:    engine.PhraseMinLength,
		MinSegmentLength:   engine.MinSegmentLength,
		ShortSegmentRatio:  engine.ShortSegmentRatio,
		BalanceMinRatio:    engine.BalanceMinRatio,
		BalanceMaxRatio:    engine.BalanceMaxRatio,
		ProtectURLs:        engine.ProtectURLs,
		ProtectEmails:      engine.ProtectEmails,
		ProtectFilePaths:   engine.ProtectFilePaths,
		BoxWidth:           42,
		DisplayThreshold:   50,
		Concurrency:        4,
		InputEncoding:      "auto",
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	engine := c.engineConfig()
	if err := engine.Validate(); err != nil {
		return err
	}

	switch {
	case c.BoxWidth <= 0:
		return fmt.Errorf("%w: box_width must be > 0, got %d", segment.ErrInvalidConfig, c.BoxWidth)
	case c.DisplayThreshold < 0:
		return fmt.Errorf("%w: display_threshold must be >= 0, got %d", segment.ErrInvalidConfig, c.DisplayThreshold)
	case c.Concurrency <= 0:
		return fmt.Errorf("%w: concurrency must be > 0, got %d", segment.ErrInvalidConfig, c.Concurrency)
	}

	encoding := strings.ToLower(c.InputEncoding)
	for _, e := range SupportedEncodings {
		if e == encoding {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported input_encoding %q", segment.ErrInvalidConfig, c.InputEncoding)
}

// SegmentConfig 转换为切分引擎配置，并加载额外缩写文件
func (c *Config) SegmentConfig() (segment.Config, error) {
	engine := c.engineConfig()
	if c.AbbreviationsFile != "" {
		abbreviations, err := LoadAbbreviations(c.AbbreviationsFile)
		if err != nil {
			return segment.Config{}, err
		}
		engine.ExtraAbbreviations = abbreviations.Abbreviations
	}
	if err := engine.Validate(); err != nil {
		return segment.Config{}, err
	}
	return engine, nil
}

func (c *Config) engineConfig() segment.Config {
	return segment.Config{
		ShortCircuitLength: c.ShortCircuitLength,
		WrapThreshold:      c.WrapThreshold,
		MaxLineLength:      c.MaxLineLength,
		PhraseMinLength:    c.PhraseMinLength,
		MinSegmentLength:   c.MinSegmentLength,
		ShortSegmentRatio:  c.ShortSegmentRatio,
		BalanceMinRatio:    c.BalanceMinRatio,
		BalanceMaxRatio:    c.BalanceMaxRatio,
		ProtectURLs:        c.ProtectURLs,
		ProtectEmails:      c.ProtectEmails,
		ProtectFilePaths:   c.ProtectFilePaths,
	}
}

// Settings 以配置键名返回全部设置
func (c *Config) Settings() map[string]interface{} {
	return structToMap(c)
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	for key, value := range structToMap(NewDefaultConfig()) {
		v.SetDefault(key, value)
	}
}

// structToMap 将结构体转换为map
func structToMap(config *Config) map[string]interface{} {
	return map[string]interface{}{
		"short_circuit_length": config.ShortCircuitLength,
		"wrap_threshold":       config.WrapThreshold,
		"max_line_length":      config.MaxLineLength,
		"phrase_min_length":    config.PhraseMinLength,
		"min_segment_length":   config.MinSegmentLength,
		"short_segment_ratio":  config.ShortSegmentRatio,
		"balance_min_ratio":    config.BalanceMinRatio,
		"balance_max_ratio":    config.BalanceMaxRatio,
		"protect_urls":         config.ProtectURLs,
		"protect_emails":       config.ProtectEmails,
		"protect_file_paths":   config.ProtectFilePaths,
		"abbreviations_file":   config.AbbreviationsFile,
		"box_width":            config.BoxWidth,
		"display_threshold":    config.DisplayThreshold,
		"concurrency":          config.Concurrency,
		"input_encoding":       config.InputEncoding,
		"debug":                config.Debug,
		"verbose":              config.Verbose,
	}
}
