// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package gui

import (
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"clipboard-image-saver/clipimage"
	"clipboard-image-saver/config"
)

// Controller は UI のボタン操作を設定ストアとクリップボードにつなぎます。
// fyne には依存しないので、UI 無しで操作を実行できます。
type Controller struct {
	store *config.Store
	clip  clipimage.Reader
	now   func() time.Time
}

// NewController は新しい Controller を作成します。
func NewController(store *config.Store, clip clipimage.Reader) *Controller {
	return &Controller{
		store: store,
		clip:  clip,
		now:   time.Now,
	}
}

// Settings は現在の設定を返します。
func (c *Controller) Settings() config.Settings {
	return c.store.Settings()
}

// Capture はクリップボードの画像を取得します。画像が無い場合は clipimage.ErrNoImage を返します。
func (c *Controller) Capture() (image.Image, error) {
	img, err := c.clip.ReadImage()
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, clipimage.ErrNoImage
	}
	return img, nil
}

// SuggestedFileName は「名前を付けて保存」ダイアログの初期ファイル名です。
func (c *Controller) SuggestedFileName() string {
	return clipimage.FileName(c.now())
}

// SaveAs は取得済みの画像をユーザーが選んだ保存先に PNG 形式で書き込みます。
func (c *Controller) SaveAs(dst io.Writer, img image.Image) error {
	if err := clipimage.Encode(dst, img); err != nil {
		return err
	}
	log.Println("Clipboard image saved via save-as dialog")
	return nil
}

// InstaSave はクリップボードの画像を quick_save_folder に保存し、保存したパスを返します。
func (c *Controller) InstaSave() (string, error) {
	img, err := c.Capture()
	if err != nil {
		return "", err
	}

	dir := c.store.Settings().QuickSaveFolder
	path, err := clipimage.QuickSave(img, dir, c.now())
	if err != nil {
		return "", err
	}
	log.Printf("Clipboard image saved to %s", path)
	return path, nil
}

// SetDefaultFolder は「名前を付けて保存」の初期フォルダを変更します。空のパス (キャンセル) は何もしません。
func (c *Controller) SetDefaultFolder(path string) error {
	if path == "" {
		return nil
	}
	if err := c.store.SetDefaultFolder(path); err != nil {
		return fmt.Errorf("failed to save default folder: %w", err)
	}
	log.Printf("Destination folder set to: %s", path)
	return nil
}

// SetQuickSaveFolder はワンクリック保存先を変更します。空のパス (キャンセル) は何もしません。
func (c *Controller) SetQuickSaveFolder(path string) error {
	if path == "" {
		return nil
	}
	if err := c.store.SetQuickSaveFolder(path); err != nil {
		return fmt.Errorf("failed to save quick-save folder: %w", err)
	}
	log.Printf("Quick-save folder set to: %s", path)
	return nil
}

// ToggleAlwaysOnTop は最前面表示の設定を反転して保存し、新しい値を返します。
func (c *Controller) ToggleAlwaysOnTop() (bool, error) {
	on := !c.store.Settings().AlwaysOnTop
	if err := c.store.SetAlwaysOnTop(on); err != nil {
		return !on, fmt.Errorf("failed to save always-on-top setting: %w", err)
	}
	return on, nil
}

// SelectWindowSize はウィンドウサイズのプリセットを選択して保存します。
func (c *Controller) SelectWindowSize(index int) (config.WindowSize, error) {
	if err := c.store.SetWindowSizeIndex(index); err != nil {
		return config.WindowSize{}, fmt.Errorf("failed to save window size: %w", err)
	}
	return config.WindowSizes[index], nil
}

// RememberGeometry は終了時のウィンドウサイズを保存します。
func (c *Controller) RememberGeometry(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := c.store.SetWindowGeometry(config.FormatGeometry(width, height)); err != nil {
		return fmt.Errorf("failed to save window geometry: %w", err)
	}
	return nil
}

// InitialWindowSize は起動時のウィンドウサイズを返します。
// 保存済みのジオメトリがあればそれを、無ければ選択中のプリセットを使います。
func (c *Controller) InitialWindowSize() (width, height int) {
	cfg := c.store.Settings()
	if cfg.WindowGeometry != nil {
		if w, h, err := config.ParseGeometry(*cfg.WindowGeometry); err == nil {
			return w, h
		}
	}
	ws := config.WindowSizeAt(cfg.WindowSizeIndex)
	return ws.Width, ws.Height
}
