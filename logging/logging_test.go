// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidLevel(t *testing.T) {
	require.True(t, ValidLevel("debug"))
	require.True(t, ValidLevel("critical"))
	require.False(t, ValidLevel("bogus"))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "bogus"})
	require.Error(t, err)
}

func TestNewBuildsLogger(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Config{
		Dir:        dir,
		Filename:   "zecnode.log",
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("hello")
	require.NoError(t, log.Sync())
}
