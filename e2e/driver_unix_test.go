//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/creack/pty"
)

const ringSize = 1 << 20    // 1 MiB of scrollback
var binPath = "pdfmark" // set by TestMain

// Terminal size of every session
const (
	termRows = 40
	termCols = 120
)

// Key constants for better readability
const (
	KeyEnter  = "\r"
	KeyEsc    = "\x1b"
	KeyCtrlC  = "\x03"
	KeyQuit   = "q"
	KeyNext   = "J"
	KeyPrev   = "K"
	KeySearch = "/"
	KeyPrompt = ":"
	KeyMark   = "a"
	KeyUndo   = "u"
)

// ANSI escape sequence regex for normalization - covers CSI, OSC, charset, keypad modes
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` + // CSI sequences
		`(?:\x1b\][^\x07]*\x07)|` + // OSC sequences
		`(?:\x1b[\(\)][A-Za-z])|` + // charset sequences
		`(?:\x1b=|\x1b>)|` + // keypad mode sequences
		`\r`, // carriage returns
)

// TUITestFramework drives one pdfmark process through a PTY
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string

	// Ring buffer for continuous output capture
	mu   sync.Mutex
	buf  []byte
	head int
	full bool
	cond *sync.Cond

	exited chan error
}

// NewTUITest creates a framework with a private workspace. The workspace
// holds the config file, the log and any fixture documents.
func NewTUITest(t *testing.T) *TUITestFramework {
	tf := &TUITestFramework{
		t:         t,
		buf:       make([]byte, ringSize),
		workspace: t.TempDir(),
	}
	tf.cond = sync.NewCond(&tf.mu)
	tf.WriteConfig("")
	t.Cleanup(tf.Cleanup)
	return tf
}

// Path returns a path inside the workspace
func (tf *TUITestFramework) Path(name string) string {
	return filepath.Join(tf.workspace, name)
}

// WriteConfig writes the config file used by StartApp. extra is appended
// after the log section.
func (tf *TUITestFramework) WriteConfig(extra string) {
	tf.t.Helper()
	content := fmt.Sprintf("[log]\nlevel = \"debug\"\nfile = %q\n\n[tools]\nqpdf = \"qpdf-not-installed\"\npdfcpu_fallback = true\n\n%s",
		tf.Path("pdfmark.log"), extra)
	if err := os.WriteFile(tf.Path("config.toml"), []byte(content), 0644); err != nil {
		tf.t.Fatalf("failed to write config: %v", err)
	}
}

// StartApp launches pdfmark with given arguments in a PTY
func (tf *TUITestFramework) StartApp(args ...string) error {
	cmdArgs := append([]string{"-config", tf.Path("config.toml")}, args...)
	tf.cmd = exec.Command(binPath, cmdArgs...)
	tf.cmd.Dir = tf.workspace

	// Set per-process environment variables
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace, // isolate $HOME
		"PAGER=cat",
	)

	// Start the command with a PTY
	ptyFile, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("failed to open pty: %w", err)
	}

	tf.pty = ptyFile
	tf.tty = tty
	tf.cmd.Stdout = tty
	tf.cmd.Stdin = tty
	tf.cmd.Stderr = tty

	// Set terminal size
	ws := struct {
		Row uint16
		Col uint16
		X   uint16
		Y   uint16
	}{termRows, termCols, 0, 0}
	syscall.Syscall(syscall.SYS_IOCTL, ptyFile.Fd(), uintptr(syscall.TIOCSWINSZ), uintptr(unsafe.Pointer(&ws)))

	if err := tf.cmd.Start(); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to start command: %w", err)
	}

	tf.exited = make(chan error, 1)
	go func(cmd *exec.Cmd) {
		tf.exited <- cmd.Wait()
	}(tf.cmd)

	// Start the continuous reader
	tf.startReader()

	return nil
}

// startReader starts the continuous reader goroutine
func (tf *TUITestFramework) startReader() {
	go func() {
		buf := make([]byte, 8192)
		for {
			n, err := tf.pty.Read(buf)
			if n > 0 {
				tf.mu.Lock()
				for i := 0; i < n; i++ {
					tf.buf[tf.head] = buf[i]
					tf.head = (tf.head + 1) % ringSize
					if tf.head == 0 {
						tf.full = true
					}
				}
				tf.cond.Broadcast()
				tf.mu.Unlock()
			}
			if err != nil {
				tf.mu.Lock()
				tf.cond.Broadcast()
				tf.mu.Unlock()
				return
			}
		}
	}()
}

// SendKeys sends keystrokes to the application
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// SendEnter sends an Enter key
func (tf *TUITestFramework) SendEnter() error {
	tf.t.Helper()
	return tf.SendKeys(KeyEnter)
}

// Type sends text one key at a time
func (tf *TUITestFramework) Type(text string) error {
	tf.t.Helper()
	for _, r := range text {
		if err := tf.SendKeys(string(r)); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

// RunCommand opens the prompt and submits line
func (tf *TUITestFramework) RunCommand(line string) error {
	tf.t.Helper()
	if err := tf.SendKeys(KeyPrompt); err != nil {
		return err
	}
	if err := tf.Type(line); err != nil {
		return err
	}
	return tf.SendEnter()
}

// Drag presses the left button at one cell, moves to another and releases.
// Cells are 0-based screen coordinates; SGR mouse reports are 1-based.
func (tf *TUITestFramework) Drag(fromCol, fromRow, toCol, toRow int) error {
	tf.t.Helper()
	seq := []string{
		fmt.Sprintf("\x1b[<0;%d;%dM", fromCol+1, fromRow+1),
		fmt.Sprintf("\x1b[<32;%d;%dM", (fromCol+toCol)/2+1, (fromRow+toRow)/2+1),
		fmt.Sprintf("\x1b[<32;%d;%dM", toCol+1, toRow+1),
		fmt.Sprintf("\x1b[<0;%d;%dm", toCol+1, toRow+1),
	}
	for _, s := range seq {
		if err := tf.SendKeys(s); err != nil {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}
	return nil
}

// WaitForExit waits for the process to end
func (tf *TUITestFramework) WaitForExit(timeout time.Duration) error {
	select {
	case err := <-tf.exited:
		tf.cmd = nil
		return err
	case <-time.After(timeout):
		return fmt.Errorf("process still running after %s", timeout)
	}
}

// OutputContainsPlain checks if the normalized output contains specific text within a timeout
func (tf *TUITestFramework) OutputContainsPlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, timeout)
}

// WaitFor waits for a predicate to be true in the output
func (tf *TUITestFramework) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.Snapshot()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond) // simple, reliable polling; tests only
	}
}

// WaitForPlain waits for text in the normalized output and fails with the
// tail of the screen when it does not show up
func (tf *TUITestFramework) WaitForPlain(text string, timeout time.Duration) error {
	tf.t.Helper()
	if tf.OutputContainsPlain(text, timeout) {
		return nil
	}
	tail := tf.SnapshotPlain()
	if len(tail) > 4096 {
		tail = tail[len(tail)-4096:]
	}
	return fmt.Errorf("timed out waiting for %q\n--- tail ---\n%s", text, tail)
}

// Snapshot returns the current contents of the ring buffer (thread-safe)
func (tf *TUITestFramework) Snapshot() string {
	tf.t.Helper()
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.snapshot()
}

// snapshot returns the current contents of the ring buffer
// NOTE: This assumes the mutex is already locked by the caller
func (tf *TUITestFramework) snapshot() string {
	if !tf.full {
		return string(tf.buf[:tf.head])
	}
	out := make([]byte, ringSize)
	copy(out, tf.buf[tf.head:])
	copy(out[ringSize-tf.head:], tf.buf[:tf.head])
	return string(out)
}

// SnapshotPlain returns the current contents of the ring buffer with ANSI sequences removed
func (tf *TUITestFramework) SnapshotPlain() string {
	tf.t.Helper()
	return ansiRe.ReplaceAllString(tf.Snapshot(), "")
}

// ResetOutput forgets captured output so later waits only see new frames
func (tf *TUITestFramework) ResetOutput() {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.head = 0
	tf.full = false
}

// Cleanup closes the PTY and terminates the application
func (tf *TUITestFramework) Cleanup() {
	// Close PTY first to deliver SIGHUP to child process
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.tty != nil {
		_ = tf.tty.Close()
		tf.tty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		<-tf.exited
		tf.cmd = nil
	}
}
