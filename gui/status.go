// Copyright (c) 2025 SeeKT
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
package gui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// 保存完了メッセージを表示しておく時間
const statusRevertDelay = 2500 * time.Millisecond

// statusLine はステータス表示を管理します。
// Flash で一時的なメッセージを出し、一定時間後に通常の表示へ戻します。
// 戻す処理は常に一つだけで、新しい Flash は保留中のものを置き換えます。
type statusLine struct {
	setText func(string)
	do      func(func()) // タイマーからの UI 更新をメインスレッドで実行する
	delay   time.Duration

	mu         sync.Mutex
	base       string
	generation int
	timer      *time.Timer
}

func newStatusLine(setText func(string)) *statusLine {
	return &statusLine{
		setText: setText,
		do:      fyne.Do,
		delay:   statusRevertDelay,
	}
}

// SetBase は通常時の表示を変更します。メッセージ表示中であれば戻ったときに反映されます。
func (s *statusLine) SetBase(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base = text
	if s.timer == nil {
		s.setText(text)
	}
}

// Flash は text を表示し、delay 後に通常の表示へ戻します。
func (s *statusLine) Flash(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation
	s.setText(text)
	s.timer = time.AfterFunc(s.delay, func() {
		s.do(func() { s.revert(gen) })
	})
}

// revert は gen が最新の Flash である場合のみ表示を戻します。
func (s *statusLine) revert(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.timer = nil
	s.setText(s.base)
}

// Stop は保留中の戻し処理を取り消します。
func (s *statusLine) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}
