// Package testutil provides helpers shared by cpmod tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/lucas-albers-lz4/cpmod/pkg/log"
)

// mutex serializes tests that swap the global logger output.
var mutex sync.Mutex

// SuppressLogging discards all log output until the returned function is called.
func SuppressLogging() func() {
	mutex.Lock()
	defer mutex.Unlock()

	restoreLog := log.SetOutput(io.Discard)
	return func() {
		mutex.Lock()
		defer mutex.Unlock()
		restoreLog()
	}
}

// UseTestLogger captures log output and prints it only if the test fails.
func UseTestLogger(t *testing.T) {
	t.Helper()
	if testing.Verbose() {
		return
	}

	mutex.Lock()
	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	mutex.Unlock()

	t.Cleanup(func() {
		mutex.Lock()
		restore()
		mutex.Unlock()
		if t.Failed() {
			t.Logf("Log output captured during test:\n%s", buf.String())
		}
	})
}

// CaptureLogOutput runs testFunc with the given level and returns what was logged.
// The original output and level are restored afterwards. A panic in testFunc
// is returned as an error.
//
//	output, err := testutil.CaptureLogOutput(log.LevelDebug, func() {
//	    log.Info("This will be captured")
//	})
func CaptureLogOutput(logLevel log.Level, testFunc func()) (output string, err error) {
	mutex.Lock()
	defer mutex.Unlock()

	originalLevel := log.CurrentLevel()
	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic during log capture: %v", r)
			}
		}()
		testFunc()
	}()

	return logBuf.String(), err
}

// CaptureJSONLogs is CaptureLogOutput with each JSON line decoded into a map.
// The logger must be in its default JSON format.
func CaptureJSONLogs(logLevel log.Level, testFunc func()) ([]map[string]any, error) {
	output, err := CaptureLogOutput(logLevel, testFunc)
	if err != nil {
		return nil, err
	}

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return entries, fmt.Errorf("failed to parse log line %q: %w", line, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FindLog returns the first entry whose msg equals msg and whose attributes
// include every key/value pair in attrs.
func FindLog(entries []map[string]any, msg string, attrs map[string]any) (map[string]any, bool) {
	for _, entry := range entries {
		if entry["msg"] != msg {
			continue
		}
		matched := true
		for k, v := range attrs {
			if fmt.Sprint(entry[k]) != fmt.Sprint(v) {
				matched = false
				break
			}
		}
		if matched {
			return entry, true
		}
	}
	return nil, false
}
