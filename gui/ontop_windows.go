// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.

//go:build windows

package gui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"golang.org/x/sys/windows"
)

// Windows API のインポート
var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	setWindowPosProc = user32.NewProc("SetWindowPos")
)

// SetWindowPos の hWndInsertAfter (HWND_TOPMOST = -1, HWND_NOTOPMOST = -2)
const (
	hwndTopmost   = ^uintptr(0)
	hwndNoTopmost = ^uintptr(1)

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoActivate = 0x0010
)

// setAlwaysOnTop はウィンドウを最前面表示にする、または解除します。
func setAlwaysOnTop(w fyne.Window, on bool) error {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return errors.New("native window handle is not available")
	}

	var callErr error
	nw.RunNative(func(context any) {
		wc, ok := context.(driver.WindowsWindowContext)
		if !ok || wc.HWND == 0 {
			callErr = errors.New("window has no HWND yet")
			return
		}

		insertAfter := hwndNoTopmost
		if on {
			insertAfter = hwndTopmost
		}
		ret, _, err := setWindowPosProc.Call(wc.HWND, insertAfter, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
		if ret == 0 {
			callErr = fmt.Errorf("SetWindowPos failed: %w", err)
		}
	})
	return callErr
}
