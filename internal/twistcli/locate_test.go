package twistcli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	calls int
	err   error
}

func (f *fakeDownloader) DownloadTwistcli(_ context.Context, goos, dest string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("#!/bin/sh\n"), 0o755)
}

func TestLocateDownloadsOnceAndCaches(t *testing.T) {
	downloader := &fakeDownloader{}
	l := &Locator{CacheFolder: t.TempDir(), OS: "linux", Downloader: downloader}

	path, err := l.Locate(context.Background(), "22.06.179")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(l.CacheFolder, "22.06.179", "twistcli"), path)

	again, err := l.Locate(context.Background(), "22.06.179")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, downloader.calls)
}

func TestLocateWindowsBinaryName(t *testing.T) {
	l := &Locator{CacheFolder: t.TempDir(), OS: "windows", Downloader: &fakeDownloader{}}

	path, err := l.Locate(context.Background(), "1.0")
	require.NoError(t, err)
	assert.Equal(t, "twistcli.exe", filepath.Base(path))
}

func TestLocateConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "twistcli")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))
	downloader := &fakeDownloader{}

	l := &Locator{ConfiguredPath: bin, Downloader: downloader}
	path, err := l.Locate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, bin, path)
	assert.Zero(t, downloader.calls)

	l.ConfiguredPath = filepath.Join(dir, "missing")
	_, err = l.Locate(context.Background(), "")
	assert.Error(t, err)
}

func TestLocateErrors(t *testing.T) {
	l := &Locator{CacheFolder: t.TempDir(), OS: "linux"}

	_, err := l.Locate(context.Background(), "")
	assert.Error(t, err)

	_, err = l.Locate(context.Background(), "1.0")
	assert.Error(t, err)

	boom := errors.New("boom")
	l.Downloader = &fakeDownloader{err: boom}
	_, err = l.Locate(context.Background(), "1.0")
	assert.ErrorIs(t, err, boom)
}
