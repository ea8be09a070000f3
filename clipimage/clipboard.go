// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package clipimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png" // PNG デコーダの登録
	"sync"

	"golang.design/x/clipboard"
	_ "golang.org/x/image/bmp" // Windows の DIB 由来の BMP デコーダの登録
)

// ErrNoImage はクリップボードに画像が無い場合に返されます。
var ErrNoImage = errors.New("no image found on clipboard")

// Reader はクリップボードから画像を読み取ります。
type Reader interface {
	ReadImage() (image.Image, error)
}

// SystemClipboard は OS のクリップボードを読み取る Reader です。
type SystemClipboard struct {
	once    sync.Once
	initErr error
}

func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// ReadImage はクリップボード上の画像を返します。画像が無い場合は ErrNoImage を返します。
func (c *SystemClipboard) ReadImage() (image.Image, error) {
	// 初回の読み取り時にのみ初期化する
	c.once.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", c.initErr)
	}

	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return Decode(data)
}

// Decode はクリップボードから得たバイト列を画像に変換します。
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clipboard image: %w", err)
	}
	return img, nil
}
