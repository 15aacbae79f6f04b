package robot_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/glimpse/internal/robot"
)

// script writes an executable shell script that runs body.
func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on Windows")
	}
	path := filepath.Join(t.TempDir(), "app.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("boom")

	withArg := &robot.Error{Op: "start", Arg: "/opt/editor", Err: base}
	assert.Equal(t, "robot start /opt/editor failed: boom", withArg.Error())
	assert.ErrorIs(t, withArg, base)

	noArg := &robot.Error{Op: "read-clipboard", Err: base}
	assert.Equal(t, "robot read-clipboard failed: boom", noArg.Error())
}

func TestStartMissingExecutable(t *testing.T) {
	_, err := robot.New().Start(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	var rerr *robot.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "start", rerr.Op)
}

func TestProcessLifecycle(t *testing.T) {
	p, err := robot.New().Start(script(t, "exec sleep 30"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Kill() })

	assert.Positive(t, p.Pid())
	assert.True(t, p.Running())
	assert.Error(t, p.Wait(50*time.Millisecond), "Wait should time out while the process runs")

	require.NoError(t, p.Terminate())
	require.NoError(t, p.Wait(5*time.Second))
	assert.False(t, p.Running())
	assert.NoError(t, p.Kill(), "Kill after exit is a no-op")
}

func TestProcessExitsOnItsOwn(t *testing.T) {
	p, err := robot.New().Start(script(t, "exit 0"))
	require.NoError(t, err)

	require.NoError(t, p.Wait(5*time.Second))
	assert.False(t, p.Running())
	assert.NoError(t, p.Terminate())
}

func TestWindowInfoID(t *testing.T) {
	main := robot.WindowInfo{Handle: 0x3a00007, PID: 4201, Title: "*new 2 - Notepad++"}
	prompt := robot.WindowInfo{Handle: 0x3a0012c, PID: 4201, Title: "Save"}

	assert.Equal(t, 0x3a00007, main.ID())
	assert.NotEqual(t, main.ID(), prompt.ID(), "windows of one process must not share an ID")

	// Without a native handle the process's main window stands in.
	assert.Equal(t, -4201, robot.WindowInfo{Handle: -4201, PID: 4201}.ID())
}
