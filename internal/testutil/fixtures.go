// Package testutil provides utilities for testing.
package testutil

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// SampleReport is the async-profiler flat report shared by package tests.
const SampleReport = "async_flat_sample.txt"

// Facts about SampleReport that tests assert against.
const (
	SampleReportRecords    = 8
	SampleReportUnresolved = 6
)

// SummaryLine is the canonical summary line of a flat report.
const SummaryLine = "  8420496037    9.65%      842  com.comitative.pt.MainKt.main_[j]"

// GetTestDataPath returns the absolute path to a file in the testdata directory.
// It searches for testdata in the caller's directory and parent directories.
func GetTestDataPath(t *testing.T, filename string) string {
	t.Helper()

	_, callerFile, _, ok := runtime.Caller(1)
	if !ok {
		t.Fatal("failed to get caller file path")
	}

	dir := filepath.Dir(callerFile)
	for i := 0; i < 6; i++ {
		testdataPath := filepath.Join(dir, "testdata", filename)
		if _, err := os.Stat(testdataPath); err == nil {
			return testdataPath
		}
		dir = filepath.Dir(dir)
	}

	return filepath.Join("testdata", filename)
}

// LoadFixture loads a test fixture file and returns its contents.
func LoadFixture(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(fixturePath(t, filename))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", filename, err)
	}
	return data
}

// LoadFixtureReader loads a test fixture file and returns an io.Reader.
func LoadFixtureReader(t *testing.T, filename string) io.Reader {
	t.Helper()
	return bytes.NewReader(LoadFixture(t, filename))
}

// FixturePath returns the path of a fixture file, failing the test if it is missing.
func FixturePath(t *testing.T, filename string) string {
	t.Helper()
	path := fixturePath(t, filename)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("fixture %s not found: %v", filename, err)
	}
	return path
}

// fixturePath resolves testdata relative to this package so helpers work
// from any caller depth.
func fixturePath(t *testing.T, filename string) string {
	t.Helper()
	_, self, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get testutil file path")
	}
	dir := filepath.Dir(self)
	for i := 0; i < 6; i++ {
		candidate := filepath.Join(dir, "testdata", filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return filepath.Join("testdata", filename)
}

// TempFileWithName creates a temporary file with the given name and content.
// The file is removed when the test completes.
func TempFileWithName(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// GzipBytes compresses data with gzip.
func GzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("failed to gzip data: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}
