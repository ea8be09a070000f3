package gui

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipboard-image-saver/clipimage"
	"clipboard-image-saver/config"
)

// fakeClipboard はテスト用のクリップボードです。
type fakeClipboard struct {
	img   image.Image
	err   error
	reads int
}

func (f *fakeClipboard) ReadImage() (image.Image, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	if f.img == nil {
		return nil, clipimage.ErrNoImage
	}
	return f.img, nil
}

func sampleImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 255, A: 255})
	return img
}

var fixedClock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

// newTestController は一時ディレクトリを HOME とした Controller を作ります。
func newTestController(t *testing.T, clip *fakeClipboard) (*Controller, *config.Store, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	store := config.Load(filepath.Join(t.TempDir(), "settings.json"))
	ctrl := NewController(store, clip)
	ctrl.now = func() time.Time { return fixedClock }
	return ctrl, store, home
}

func settingsFileContent(t *testing.T, store *config.Store) string {
	t.Helper()
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	return string(data)
}

func TestInstaSaveWritesToQuickSaveFolder(t *testing.T) {
	img := sampleImage()
	ctrl, _, home := newTestController(t, &fakeClipboard{img: img})

	path, err := ctrl.InstaSave()

	require.NoError(t, err)
	want := filepath.Join(home, "Downloads", "IMG_20240101_120000.png")
	assert.Equal(t, want, path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	got, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())
	assert.Equal(t, color.NRGBAModel.Convert(img.At(2, 1)), color.NRGBAModel.Convert(got.At(2, 1)))

	entries, err := os.ReadDir(filepath.Join(home, "Downloads"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInstaSaveUsesConfiguredFolder(t *testing.T) {
	ctrl, _, _ := newTestController(t, &fakeClipboard{img: sampleImage()})
	dir := filepath.Join(t.TempDir(), "quick")
	require.NoError(t, ctrl.SetQuickSaveFolder(dir))

	path, err := ctrl.InstaSave()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "IMG_20240101_120000.png"), path)
}

func TestInstaSaveWithoutImage(t *testing.T) {
	ctrl, store, home := newTestController(t, &fakeClipboard{})
	before := settingsFileContent(t, store)

	_, err := ctrl.InstaSave()

	assert.ErrorIs(t, err, clipimage.ErrNoImage)
	assert.NoDirExists(t, filepath.Join(home, "Downloads"))
	assert.Equal(t, before, settingsFileContent(t, store))
}

func TestCaptureErrors(t *testing.T) {
	ctrl, _, _ := newTestController(t, &fakeClipboard{})
	_, err := ctrl.Capture()
	assert.ErrorIs(t, err, clipimage.ErrNoImage)

	boom := errors.New("clipboard locked")
	ctrl, _, _ = newTestController(t, &fakeClipboard{err: boom})
	_, err = ctrl.Capture()
	assert.ErrorIs(t, err, boom)
}

func TestSaveAsWritesChosenFile(t *testing.T) {
	img := sampleImage()
	ctrl, _, _ := newTestController(t, &fakeClipboard{img: img})
	dir := t.TempDir()
	path := filepath.Join(dir, "picked.png")

	captured, err := ctrl.Capture()
	require.NoError(t, err)
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, ctrl.SaveAs(file, captured))
	require.NoError(t, file.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	reopened, err := os.Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := png.Decode(reopened)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())
}

func TestSuggestedFileName(t *testing.T) {
	ctrl, _, _ := newTestController(t, &fakeClipboard{})
	assert.Equal(t, "IMG_20240101_120000.png", ctrl.SuggestedFileName())
}

func TestFolderSelectionCancelIsNoop(t *testing.T) {
	ctrl, store, _ := newTestController(t, &fakeClipboard{})
	before := settingsFileContent(t, store)

	require.NoError(t, ctrl.SetDefaultFolder(""))
	require.NoError(t, ctrl.SetQuickSaveFolder(""))

	assert.Equal(t, before, settingsFileContent(t, store))
}

func TestSetFoldersPersist(t *testing.T) {
	ctrl, store, _ := newTestController(t, &fakeClipboard{})

	require.NoError(t, ctrl.SetDefaultFolder("/data/pictures"))
	require.NoError(t, ctrl.SetQuickSaveFolder("/data/quick"))

	reloaded := config.Load(store.Path()).Settings()
	assert.Equal(t, "/data/pictures", reloaded.DefaultFolder)
	assert.Equal(t, "/data/quick", reloaded.QuickSaveFolder)
}

func TestToggleAlwaysOnTopPersists(t *testing.T) {
	ctrl, store, _ := newTestController(t, &fakeClipboard{})

	on, err := ctrl.ToggleAlwaysOnTop()
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, config.Load(store.Path()).Settings().AlwaysOnTop)

	on, err = ctrl.ToggleAlwaysOnTop()
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, config.Load(store.Path()).Settings().AlwaysOnTop)
}

func TestSelectWindowSize(t *testing.T) {
	ctrl, store, _ := newTestController(t, &fakeClipboard{})

	ws, err := ctrl.SelectWindowSize(2)
	require.NoError(t, err)
	assert.Equal(t, config.WindowSizes[2], ws)
	assert.Equal(t, 2, config.Load(store.Path()).Settings().WindowSizeIndex)

	_, err = ctrl.SelectWindowSize(99)
	assert.ErrorIs(t, err, config.ErrInvalidValue)
	assert.Equal(t, 2, ctrl.Settings().WindowSizeIndex)
}

func TestInitialWindowSize(t *testing.T) {
	ctrl, _, _ := newTestController(t, &fakeClipboard{})

	w, h := ctrl.InitialWindowSize()
	def := config.WindowSizes[config.DefaultWindowSizeIndex]
	assert.Equal(t, def.Width, w)
	assert.Equal(t, def.Height, h)

	require.NoError(t, ctrl.RememberGeometry(400, 200))
	w, h = ctrl.InitialWindowSize()
	assert.Equal(t, 400, w)
	assert.Equal(t, 200, h)
}

func TestRememberGeometryIgnoresEmptySize(t *testing.T) {
	ctrl, _, _ := newTestController(t, &fakeClipboard{})

	require.NoError(t, ctrl.RememberGeometry(0, 0))

	assert.Nil(t, ctrl.Settings().WindowGeometry)
}
