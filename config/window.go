// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package config

import (
	"fmt"
	"regexp"
	"strconv"
)

// WindowSize はウィンドウサイズのプリセットです。
type WindowSize struct {
	Name   string
	Width  int
	Height int
}

// Label はメニュー表示用の文字列を返します。
func (ws WindowSize) Label() string {
	return fmt.Sprintf("%s (%dx%d)", ws.Name, ws.Width, ws.Height)
}

// WindowSizes は設定メニューから選べるサイズの一覧です。window_size_index はこの添字です。
var WindowSizes = []WindowSize{
	{Name: "Small", Width: 180, Height: 90},
	{Name: "Normal", Width: 240, Height: 110},
	{Name: "Large", Width: 320, Height: 140},
}

const DefaultWindowSizeIndex = 1

// WindowSizeAt は index のプリセットを返します。範囲外の場合はデフォルトを返します。
func WindowSizeAt(index int) WindowSize {
	if index < 0 || index >= len(WindowSizes) {
		return WindowSizes[DefaultWindowSizeIndex]
	}
	return WindowSizes[index]
}

// "WxH" または "WxH+X+Y" 形式 (位置は負の値も可)
var geometryPattern = regexp.MustCompile(`^(\d+)x(\d+)(?:[+-]-?\d+[+-]-?\d+)?$`)

// FormatGeometry はサイズを "WxH" 形式の文字列にします。
func FormatGeometry(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// ParseGeometry はジオメトリ文字列から幅と高さを取り出します。位置の部分は読み飛ばします。
func ParseGeometry(geometry string) (width, height int, err error) {
	m := geometryPattern.FindStringSubmatch(geometry)
	if m == nil {
		return 0, 0, fmt.Errorf("malformed window geometry %q", geometry)
	}
	width, _ = strconv.Atoi(m[1])
	height, _ = strconv.Atoi(m[2])
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("window geometry %q has an empty size", geometry)
	}
	return width, height, nil
}
