package openutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atomicobject/diskdex/internal/openutil"
)

func TestOpenWrapsUnderlyingError(t *testing.T) {
	orig := openutil.Run
	defer func() { openutil.Run = orig }()

	boom := errors.New("no handler registered")
	openutil.Run = func(string) error { return boom }

	err := openutil.Open("/tmp/report.pdf")
	assert.ErrorIs(t, err, openutil.ErrOpenFailed)
	assert.Contains(t, err.Error(), boom.Error())
}

func TestOpenSucceeds(t *testing.T) {
	orig := openutil.Run
	defer func() { openutil.Run = orig }()

	var gotPath string
	openutil.Run = func(p string) error {
		gotPath = p
		return nil
	}

	err := openutil.Open("/tmp/report.pdf")
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/report.pdf", gotPath)
}
