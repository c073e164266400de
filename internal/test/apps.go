// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package ipc_testing launches the command line programs of the module
// as separate processes for cross-process tests.
package ipc_testing

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
	"time"
)

// RingbenchPackage is an import path of the channel test program.
const RingbenchPackage = "github.com/nxgtw/scenelink/cmd/ringbench"

// TestAppResult is a result of a 'go run' program launch.
type TestAppResult struct {
	// Output is what the program has written to stdout.
	Output string
	Stderr string
	Err    error
}

// RingbenchArgs returns 'go run' arguments for a ringbench process.
// length 0 means random lengths.
func RingbenchArgs(name, role string, sleepMs, capacityMB, count, length int) []string {
	lengthArg := "random"
	if length > 0 {
		lengthArg = strconv.Itoa(length)
	}
	return []string{
		RingbenchPackage,
		"-name", name,
		role,
		strconv.Itoa(sleepMs),
		strconv.Itoa(capacityMB),
		strconv.Itoa(count),
		lengthArg,
	}
}

type testApp struct {
	cmd    *exec.Cmd
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func startTestApp(args []string, killChan <-chan bool) (*testApp, error) {
	args = append([]string{"run"}, args...)
	app := &testApp{
		cmd:    exec.Command("go", args...),
		stdout: bytes.NewBuffer(nil),
		stderr: bytes.NewBuffer(nil),
	}
	app.cmd.Stdout = app.stdout
	app.cmd.Stderr = app.stderr
	if err := app.cmd.Start(); err != nil {
		return nil, err
	}
	if killChan != nil {
		go func() {
			if kill, ok := <-killChan; kill && ok {
				app.cmd.Process.Kill()
			}
		}()
	}
	return app, nil
}

func (app *testApp) wait() (result TestAppResult) {
	if result.Err = app.cmd.Wait(); result.Err != nil {
		if exiterr, ok := result.Err.(*exec.ExitError); ok {
			if status, ok := exiterr.Sys().(syscall.WaitStatus); ok {
				result.Err = fmt.Errorf("%v, status code = %d", result.Err, status.ExitStatus())
			}
		}
	}
	result.Output = app.stdout.String()
	result.Stderr = app.stderr.String()
	return
}

// RunTestApp starts a go program via 'go run' and waits for it to finish.
// To kill the process, send to killChan.
func RunTestApp(args []string, killChan <-chan bool) TestAppResult {
	app, err := startTestApp(args, killChan)
	if err != nil {
		return TestAppResult{Err: err}
	}
	return app.wait()
}

// RunTestAppAsync starts a go program via 'go run' and returns immediately.
// To kill the process, send to killChan.
// To wait for the program to finish, receive on TestAppResult chan.
func RunTestAppAsync(args []string, killChan <-chan bool) <-chan TestAppResult {
	ch := make(chan TestAppResult, 1)
	app, err := startTestApp(args, killChan)
	if err != nil {
		ch <- TestAppResult{Err: err}
		return ch
	}
	go func() {
		ch <- app.wait()
	}()
	return ch
}

// WaitForAppResultChan waits for a value from ch with a timeout.
func WaitForAppResultChan(ch <-chan TestAppResult, d time.Duration) (TestAppResult, bool) {
	select {
	case value := <-ch:
		return value, true
	case <-time.After(d):
		return TestAppResult{}, false
	}
}
