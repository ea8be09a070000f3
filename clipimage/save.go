// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package clipimage

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileName は撮影時刻から IMG_YYYYMMDD_HHMMSS.png 形式のファイル名を作ります。
func FileName(t time.Time) string {
	return "IMG_" + t.Format("20060102_150405") + ".png"
}

// Encode は画像を PNG 形式で w に書き込みます。
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG image: %w", err)
	}
	return nil
}

// QuickSave は画像を dir に IMG_<時刻>.png として保存し、保存したパスを返します。
// dir が存在しない場合は作成します。同じ秒に保存済みのファイルがあれば _1, _2 ... を付けます。
func QuickSave(img image.Image, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory %s: %w", dir, err)
	}

	base := FileName(now)
	stem := base[:len(base)-len(filepath.Ext(base))]
	for counter := 0; ; counter++ {
		fileName := base
		if counter > 0 {
			fileName = fmt.Sprintf("%s_%d.png", stem, counter)
		}
		filePath := filepath.Join(dir, fileName)

		file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", fmt.Errorf("failed to create image file %s: %w", filePath, err)
		}
		if err := writePNG(file, img); err != nil {
			return "", err
		}
		return filePath, nil
	}
}

// writePNG は file に画像を書き込んで閉じます。失敗した場合は書きかけのファイルを削除します。
func writePNG(file *os.File, img image.Image) error {
	if err := Encode(file, img); err != nil {
		file.Close()
		os.Remove(file.Name())
		return fmt.Errorf("failed to save %s: %w", file.Name(), err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return fmt.Errorf("failed to close image file %s: %w", file.Name(), err)
	}
	return nil
}
