// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.

//go:build !windows

package gui

import (
	"errors"

	"fyne.io/fyne/v2"
)

var errAlwaysOnTopUnsupported = errors.New("always on top is not supported on this platform")

// setAlwaysOnTop は Windows 以外では何もしません。設定値は保存されます。
func setAlwaysOnTop(_ fyne.Window, _ bool) error {
	return errAlwaysOnTopUnsupported
}
