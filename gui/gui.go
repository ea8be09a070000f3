// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package gui

import (
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"clipboard-image-saver/clipimage"
	"clipboard-image-saver/config"
)

const appID = "io.github.clipboard-image-saver"

// AppContext はアプリケーションの状態と Fyne のウィンドウなどを保持します。
type AppContext struct {
	App    fyne.App
	Window fyne.Window
	Ctrl   *Controller

	// GUI Widgets
	folderButton    *widget.Button
	saveAsButton    *widget.Button
	instaSaveButton *widget.Button
	statusLabel     *widget.Label
	status          *statusLine

	// 設定メニュー
	settingsMenu *fyne.Menu
	onTopItem    *fyne.MenuItem
	sizeItems    []*fyne.MenuItem
}

// NewApp は新しいアプリケーションコンテキストを作成し、GUIを初期化します。
func NewApp(store *config.Store, clip clipimage.Reader) *AppContext {
	return newAppContext(app.NewWithID(appID), store, clip)
}

func newAppContext(a fyne.App, store *config.Store, clip clipimage.Reader) *AppContext {
	w := a.NewWindow("Clipboard Image Saver")

	ac := &AppContext{
		App:    a,
		Window: w,
		Ctrl:   NewController(store, clip),
	}

	ac.createUI()   // UIコンポーネントを構築
	ac.createMenu() // 設定メニューを構築
	ac.applyInitialSize()

	// 最前面表示はネイティブウィンドウができてから反映する
	a.Lifecycle().SetOnStarted(func() {
		ac.applyAlwaysOnTop(ac.Ctrl.Settings().AlwaysOnTop)
	})

	// ウィンドウが閉じられたときの処理
	w.SetOnClosed(func() {
		ac.status.Stop()
		size := w.Canvas().Size()
		if err := ac.Ctrl.RememberGeometry(int(size.Width), int(size.Height)); err != nil {
			log.Printf("Failed to save window geometry on exit: %v", err)
		}
	})

	return ac
}

// createUI はGUIコンポーネントを構築し、ウィンドウに配置します。
func (ac *AppContext) createUI() {
	ac.folderButton = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), ac.selectDefaultFolder)
	ac.saveAsButton = widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), ac.saveAs)
	ac.instaSaveButton = widget.NewButtonWithIcon("", theme.DownloadIcon(), ac.instaSave)
	ac.instaSaveButton.Importance = widget.HighImportance

	// --- ステータス表示 (保存先フォルダ名) ---
	ac.statusLabel = widget.NewLabel("")
	ac.statusLabel.Truncation = fyne.TextTruncateEllipsis
	ac.status = newStatusLine(ac.statusLabel.SetText)
	ac.status.SetBase(folderLabel(ac.Ctrl.Settings().DefaultFolder))

	buttons := container.NewGridWithColumns(3,
		ac.folderButton,
		ac.saveAsButton,
		ac.instaSaveButton,
	)

	ac.Window.SetContent(container.NewBorder(nil, ac.statusLabel, nil, nil, buttons))
}

// createMenu は「Settings」メニューを構築します。
func (ac *AppContext) createMenu() {
	cfg := ac.Ctrl.Settings()

	ac.onTopItem = fyne.NewMenuItem("Always on Top", ac.toggleAlwaysOnTop)
	ac.onTopItem.Checked = cfg.AlwaysOnTop

	ac.sizeItems = make([]*fyne.MenuItem, len(config.WindowSizes))
	for i, ws := range config.WindowSizes {
		ac.sizeItems[i] = fyne.NewMenuItem(ws.Label(), func() {
			ac.selectWindowSize(i)
		})
	}
	ac.markWindowSize(cfg.WindowSizeIndex)

	sizeItem := fyne.NewMenuItem("Window Size", nil)
	sizeItem.ChildMenu = fyne.NewMenu("", ac.sizeItems...)

	ac.settingsMenu = fyne.NewMenu("Settings",
		ac.onTopItem,
		sizeItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Default Folder...", ac.selectDefaultFolder),
		fyne.NewMenuItem("Quick-Save Folder...", ac.selectQuickSaveFolder),
	)
	ac.Window.SetMainMenu(fyne.NewMainMenu(ac.settingsMenu))
}

// applyInitialSize は保存済みのジオメトリ、またはプリセットでウィンドウサイズを設定します。
func (ac *AppContext) applyInitialSize() {
	w, h := ac.Ctrl.InitialWindowSize()
	ac.Window.Resize(fyne.NewSize(float32(w), float32(h)))
}

// saveAs はクリップボードの画像を「名前を付けて保存」ダイアログで保存します。
func (ac *AppContext) saveAs() {
	// 画像が無い場合はダイアログを開かない (空のファイルを作らないため)
	img, err := ac.Ctrl.Capture()
	if err != nil {
		ac.showError(err)
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		ac.finishSaveAs(writer, err, img)
	}, ac.Window)
	saveDialog.SetFileName(ac.Ctrl.SuggestedFileName())
	saveDialog.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	if loc, err := folderURI(ac.Ctrl.Settings().DefaultFolder); err == nil {
		saveDialog.SetLocation(loc)
	}
	saveDialog.Show()
}

// finishSaveAs は保存ダイアログの結果を処理します。writer が nil の場合はキャンセルです。
func (ac *AppContext) finishSaveAs(writer fyne.URIWriteCloser, err error, img image.Image) {
	if err != nil {
		ac.showError(err)
		return
	}
	if writer == nil {
		return
	}

	saveErr := ac.Ctrl.SaveAs(writer, img)
	closeErr := writer.Close()
	if saveErr != nil {
		ac.showError(saveErr)
		return
	}
	if closeErr != nil {
		ac.showError(fmt.Errorf("failed to write %s: %w", writer.URI().Name(), closeErr))
		return
	}
	ac.status.Flash("Saved " + writer.URI().Name())
}

// instaSave はクリップボードの画像をワンクリック保存先に保存します。
func (ac *AppContext) instaSave() {
	path, err := ac.Ctrl.InstaSave()
	if err != nil {
		ac.showError(err)
		return
	}
	ac.status.Flash("Saved " + filepath.Base(path))
}

// selectDefaultFolder は「名前を付けて保存」の初期フォルダを選択させます。
func (ac *AppContext) selectDefaultFolder() {
	ac.showFolderDialog(ac.Ctrl.Settings().DefaultFolder, ac.finishDefaultFolder)
}

func (ac *AppContext) finishDefaultFolder(path string) {
	if err := ac.Ctrl.SetDefaultFolder(path); err != nil {
		ac.showError(err)
		return
	}
	if path != "" {
		ac.status.SetBase(folderLabel(path))
	}
}

// selectQuickSaveFolder はワンクリック保存先を選択させます。
func (ac *AppContext) selectQuickSaveFolder() {
	ac.showFolderDialog(ac.Ctrl.Settings().QuickSaveFolder, ac.finishQuickSaveFolder)
}

func (ac *AppContext) finishQuickSaveFolder(path string) {
	if err := ac.Ctrl.SetQuickSaveFolder(path); err != nil {
		ac.showError(err)
		return
	}
	if path != "" {
		dialog.ShowInformation("Quick-Save Folder", "Insta-save will write to:\n"+path, ac.Window)
	}
}

// showFolderDialog はフォルダ選択ダイアログを表示し、選ばれたパスを done に渡します。
// キャンセルされた場合は空文字列を渡します。
func (ac *AppContext) showFolderDialog(current string, done func(path string)) {
	folderDialog := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			ac.showError(err)
			return
		}
		if uri == nil {
			done("")
			return
		}
		done(uri.Path())
	}, ac.Window)
	if loc, err := folderURI(current); err == nil {
		folderDialog.SetLocation(loc)
	}
	folderDialog.Show()
}

// toggleAlwaysOnTop は最前面表示を切り替えます。
func (ac *AppContext) toggleAlwaysOnTop() {
	on, err := ac.Ctrl.ToggleAlwaysOnTop()
	if err != nil {
		ac.showError(err)
		return
	}
	ac.onTopItem.Checked = on
	ac.settingsMenu.Refresh()
	ac.applyAlwaysOnTop(on)
}

func (ac *AppContext) applyAlwaysOnTop(on bool) {
	if err := setAlwaysOnTop(ac.Window, on); err != nil {
		log.Printf("Could not apply always-on-top (%t): %v", on, err)
	}
}

// selectWindowSize はプリセットのサイズにウィンドウを変更します。
func (ac *AppContext) selectWindowSize(index int) {
	ws, err := ac.Ctrl.SelectWindowSize(index)
	if err != nil {
		ac.showError(err)
		return
	}
	ac.markWindowSize(index)
	ac.settingsMenu.Refresh()
	ac.Window.Resize(fyne.NewSize(float32(ws.Width), float32(ws.Height)))
}

func (ac *AppContext) markWindowSize(index int) {
	for i, item := range ac.sizeItems {
		item.Checked = i == index
	}
}

// showError はエラーダイアログを表示します。
func (ac *AppContext) showError(err error) {
	if errors.Is(err, clipimage.ErrNoImage) {
		log.Println("Save skipped: no image on clipboard")
	} else {
		log.Printf("Error: %v", err)
	}
	dialog.ShowError(err, ac.Window)
}

// folderURI はダイアログの初期位置に使う URI を返します。
func folderURI(path string) (fyne.ListableURI, error) {
	if path == "" {
		return nil, errors.New("empty folder path")
	}
	return storage.ListerForURI(storage.NewFileURI(path))
}

// folderLabel はステータス表示用にフォルダ名だけを返します。
func folderLabel(path string) string {
	return filepath.Base(path)
}

// Run はFyneアプリケーションを実行します。
func (ac *AppContext) Run() {
	ac.Window.ShowAndRun()
}
