// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package main

import (
	"log"

	"clipboard-image-saver/clipimage"
	"clipboard-image-saver/config"
	"clipboard-image-saver/gui"
)

func main() {
	// 設定のロード (ファイルが無い、または壊れている場合はデフォルト値で作り直す)
	cfgPath, err := config.DefaultFilePath()
	if err != nil {
		log.Fatalf("Failed to resolve settings path: %v", err)
	}
	store := config.Load(cfgPath)

	// GUIアプリケーションの初期化と実行
	appCtx := gui.NewApp(store, clipimage.NewSystemClipboard())
	appCtx.Run()

	// 設定は変更のたびに保存済みのため、終了時の処理は不要
}
