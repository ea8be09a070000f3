// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Key は設定ファイル内のキー名です。スキーマは固定で、実行時に増えることはありません。
type Key string

const (
	KeyDefaultFolder   Key = "default_folder"
	KeyQuickSaveFolder Key = "quick_save_folder"
	KeyAlwaysOnTop     Key = "always_on_top"
	KeyWindowGeometry  Key = "window_geometry"
	KeyWindowSizeIndex Key = "window_size_index"
)

// Keys はスキーマに含まれる全てのキーです。
var Keys = []Key{
	KeyDefaultFolder,
	KeyQuickSaveFolder,
	KeyAlwaysOnTop,
	KeyWindowGeometry,
	KeyWindowSizeIndex,
}

var (
	ErrUnknownKey   = errors.New("unknown settings key")
	ErrInvalidValue = errors.New("invalid settings value")
)

// Settings はアプリケーションの設定を保持する構造体です。
type Settings struct {
	DefaultFolder   string  `json:"default_folder"`    // 「名前を付けて保存」の初期フォルダ
	QuickSaveFolder string  `json:"quick_save_folder"` // ワンクリック保存先
	AlwaysOnTop     bool    `json:"always_on_top"`
	WindowGeometry  *string `json:"window_geometry"` // 未保存の場合は null
	WindowSizeIndex int     `json:"window_size_index"`
}

// NewDefaultSettings はデフォルトの設定値を返します。
func NewDefaultSettings() Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// エラーが発生した場合のフォールバックとしてカレントディレクトリを使用
		log.Printf("Warning: Could not get user home directory: %v. Using current directory.", err)
		homeDir = "."
	}

	return Settings{
		DefaultFolder:   filepath.Join(homeDir, "Desktop"),
		QuickSaveFolder: filepath.Join(homeDir, "Downloads"),
		AlwaysOnTop:     false,
		WindowGeometry:  nil,
		WindowSizeIndex: DefaultWindowSizeIndex,
	}
}

// DefaultFilePath は設定ファイルのパスを返します。
func DefaultFilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	appConfigDir := filepath.Join(configDir, "clipboard-image-saver") // アプリケーション固有のディレクトリ
	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", appConfigDir, err)
	}
	return filepath.Join(appConfigDir, "settings.json"), nil
}

// Store は設定ファイルとメモリ上の設定を常に一致させて保持します。
// 変更のたびにファイル全体を同期的に書き直します。
type Store struct {
	path     string
	settings Settings
}

// Load は path から設定を読み込みます。
// ファイルが存在しない、または壊れている場合は空の状態から始め、エラーは返しません。
// 足りないキーはデフォルト値で補い、その結果をファイルに書き戻します。
func Load(path string) *Store {
	s := &Store{path: path}
	present := s.readFile()

	defaults := NewDefaultSettings()
	backfilled := false
	for _, key := range Keys {
		if present[key] {
			continue
		}
		s.settings.assignFrom(defaults, key)
		backfilled = true
	}

	if backfilled {
		if err := s.save(); err != nil {
			log.Printf("Failed to write default settings: %v", err)
		}
	}
	return s
}

// readFile はファイル内の既知のキーを読み込み、実際に存在したキーの集合を返します。
func (s *Store) readFile() map[Key]bool {
	present := make(map[Key]bool)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Settings file not found at %s. Using default settings.", s.path)
		} else {
			log.Printf("Failed to read settings file %s: %v. Using default settings.", s.path, err)
		}
		return present
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("Settings file %s is malformed: %v. Using default settings.", s.path, err)
		return present
	}

	for _, key := range Keys {
		value, ok := raw[string(key)]
		if !ok {
			continue
		}
		// 型が合わない値は存在しないものとして扱う
		if err := s.settings.decode(key, value); err != nil {
			log.Printf("Ignoring settings key %q: %v", key, err)
			continue
		}
		present[key] = true
	}
	log.Printf("Settings loaded from %s", s.path)
	return present
}

// Path は設定ファイルのパスを返します。
func (s *Store) Path() string {
	return s.path
}

// Settings は現在の設定のコピーを返します。
func (s *Store) Settings() Settings {
	out := s.settings
	if s.settings.WindowGeometry != nil {
		g := *s.settings.WindowGeometry
		out.WindowGeometry = &g
	}
	return out
}

// Get は key に対応する値を返します。window_geometry が未設定の場合は nil です。
func (s *Store) Get(key Key) (any, error) {
	switch key {
	case KeyDefaultFolder:
		return s.settings.DefaultFolder, nil
	case KeyQuickSaveFolder:
		return s.settings.QuickSaveFolder, nil
	case KeyAlwaysOnTop:
		return s.settings.AlwaysOnTop, nil
	case KeyWindowGeometry:
		if s.settings.WindowGeometry == nil {
			return nil, nil
		}
		return *s.settings.WindowGeometry, nil
	case KeyWindowSizeIndex:
		return s.settings.WindowSizeIndex, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Set は key の値を更新し、ファイル全体を書き直します。
func (s *Store) Set(key Key, value any) error {
	switch key {
	case KeyDefaultFolder, KeyQuickSaveFolder:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q expects a string, got %T", ErrInvalidValue, key, value)
		}
		if key == KeyDefaultFolder {
			return s.SetDefaultFolder(v)
		}
		return s.SetQuickSaveFolder(v)
	case KeyAlwaysOnTop:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q expects a bool, got %T", ErrInvalidValue, key, value)
		}
		return s.SetAlwaysOnTop(v)
	case KeyWindowGeometry:
		if value == nil {
			return s.SetWindowGeometry("")
		}
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q expects a string, got %T", ErrInvalidValue, key, value)
		}
		return s.SetWindowGeometry(v)
	case KeyWindowSizeIndex:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: %q expects an int, got %T", ErrInvalidValue, key, value)
		}
		return s.SetWindowSizeIndex(v)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

func (s *Store) SetDefaultFolder(path string) error {
	return s.update(func(cfg *Settings) { cfg.DefaultFolder = path })
}

func (s *Store) SetQuickSaveFolder(path string) error {
	return s.update(func(cfg *Settings) { cfg.QuickSaveFolder = path })
}

func (s *Store) SetAlwaysOnTop(on bool) error {
	return s.update(func(cfg *Settings) { cfg.AlwaysOnTop = on })
}

// SetWindowGeometry はウィンドウのサイズと位置を保存します。空文字列は未設定に戻します。
func (s *Store) SetWindowGeometry(geometry string) error {
	if geometry != "" {
		if _, _, err := ParseGeometry(geometry); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}
	return s.update(func(cfg *Settings) {
		if geometry == "" {
			cfg.WindowGeometry = nil
			return
		}
		cfg.WindowGeometry = &geometry
	})
}

func (s *Store) SetWindowSizeIndex(index int) error {
	if index < 0 || index >= len(WindowSizes) {
		return fmt.Errorf("%w: window size index %d out of range", ErrInvalidValue, index)
	}
	return s.update(func(cfg *Settings) { cfg.WindowSizeIndex = index })
}

// update は fn で設定を変更して保存します。保存に失敗した場合はメモリ上の変更を元に戻します。
func (s *Store) update(fn func(cfg *Settings)) error {
	prev := s.settings
	fn(&s.settings)
	if err := s.save(); err != nil {
		s.settings = prev
		return err
	}
	return nil
}

// save は現在の設定をファイルに保存します。
// 同じディレクトリの一時ファイルに書いてから置き換えるので、書きかけのファイルは見えません。
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.settings, "", "  ") // JSONを整形して保存
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary settings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings file %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings file %s: %w", s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace settings file %s: %w", s.path, err)
	}
	log.Printf("Settings saved to %s", s.path)
	return nil
}

// decode は JSON の値を key に対応するフィールドに読み込みます。
func (cfg *Settings) decode(key Key, value json.RawMessage) error {
	if key != KeyWindowGeometry && string(value) == "null" {
		return errors.New("null value")
	}
	switch key {
	case KeyDefaultFolder:
		return json.Unmarshal(value, &cfg.DefaultFolder)
	case KeyQuickSaveFolder:
		return json.Unmarshal(value, &cfg.QuickSaveFolder)
	case KeyAlwaysOnTop:
		return json.Unmarshal(value, &cfg.AlwaysOnTop)
	case KeyWindowGeometry:
		var geometry *string
		if err := json.Unmarshal(value, &geometry); err != nil {
			return err
		}
		if geometry != nil {
			if _, _, err := ParseGeometry(*geometry); err != nil {
				return err
			}
		}
		cfg.WindowGeometry = geometry
		return nil
	case KeyWindowSizeIndex:
		var index int
		if err := json.Unmarshal(value, &index); err != nil {
			return err
		}
		if index < 0 || index >= len(WindowSizes) {
			return fmt.Errorf("window size index %d out of range", index)
		}
		cfg.WindowSizeIndex = index
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// assignFrom は key に対応するフィールドだけを src からコピーします。
func (cfg *Settings) assignFrom(src Settings, key Key) {
	switch key {
	case KeyDefaultFolder:
		cfg.DefaultFolder = src.DefaultFolder
	case KeyQuickSaveFolder:
		cfg.QuickSaveFolder = src.QuickSaveFolder
	case KeyAlwaysOnTop:
		cfg.AlwaysOnTop = src.AlwaysOnTop
	case KeyWindowGeometry:
		cfg.WindowGeometry = src.WindowGeometry
	case KeyWindowSizeIndex:
		cfg.WindowSizeIndex = src.WindowSizeIndex
	}
}
