package logger

import (
	"bytes"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Debugf("debug %d", 1)
	log.Infof("info %d", 2)
	log.Warnf("warn %d", 3)
	log.Errorf("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "WARNING: warn 3")
	assert.Contains(t, out, "ERROR: error 4")
}

func TestDefaultLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "")

	log.Debugf("hidden")
	log.Infof("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO: shown")
}

func TestLineFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")
	log.Infof("hello")

	assert.Regexp(t, regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] INFO: hello\n$`), buf.String())
}

func TestSuccessLogsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Successf("done")
	assert.Empty(t, buf.String())

	log = New(&buf, "info")
	log.Successf("done")
	assert.Contains(t, buf.String(), "INFO: done")
}

func TestNoColorForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")
	log.Errorf("plain")

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log.Infof("line %d", n)
		}(i)
	}
	wg.Wait()

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 20, lines)
}
