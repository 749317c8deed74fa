package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilSpinnerIsNoop(t *testing.T) {
	var s *spinner
	assert.NotPanics(t, func() {
		s.Tick()
		s.Describe("x %d", 1)
		s.Finish()
	})
}

func TestSpinnerWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(&buf, "walking")
	s.Tick()
	s.Tick()
	s.Finish()
	assert.NotEmpty(t, buf.String())
}

func TestSpinnerDescribeShowsLabel(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(&buf, "Walking commits")
	s.Describe("Walking commits (%d skipped)", 2)
	s.Tick()
	assert.Contains(t, buf.String(), "Walking commits (2 skipped)")
	s.Finish()
}
