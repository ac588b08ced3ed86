package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	previewBytes   = 16 * 1024
	previewEntries = 50
	probeTimeout   = 15 * time.Second
)

func (m Model) rescan() tea.Cmd {
	rescan := m.opts.Rescan
	return func() tea.Msg {
		res, err := rescan()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return resultsMsg(res)
	}
}

func (m Model) revealSelected() tea.Cmd {
	p := m.selectedPath()
	if p == "" {
		return nil
	}
	r := m.opts.Revealer
	if r == nil {
		return func() tea.Msg { return statusMsg("Reveal not available") }
	}
	return func() tea.Msg {
		if _, err := r.Reveal(p); err != nil {
			return statusMsg(fmt.Sprintf("Reveal failed: %v", err))
		}
		return statusMsg("Revealed: " + p)
	}
}

func (m Model) deletePath(p string) tea.Cmd {
	d := m.opts.Deleter
	return func() tea.Msg {
		return deletedMsg(d.Delete(p))
	}
}

func (m Model) probeSelected() tea.Cmd {
	p := m.selectedPath()
	if p == "" {
		return nil
	}
	pr := m.opts.Prober
	if pr == nil {
		return func() tea.Msg { return statusMsg("Git status not available") }
	}
	// Asking again for a shown status means the user wants a fresh answer.
	if _, shown := m.repoStatus[p]; shown {
		m.forgetStatus(p)
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		return repoStatusMsg{dir: p, status: pr.Status(ctx, p)}
	}
}

func (m Model) copyFunc() func(string) error {
	if m.opts.Copy != nil {
		return m.opts.Copy
	}
	return clipboard.WriteAll
}

// copySelected copies the selected path to the clipboard.
func (m Model) copySelected() tea.Cmd {
	p := m.selectedPath()
	if p == "" {
		return func() tea.Msg { return statusMsg("Nothing selected") }
	}
	if err := m.copyFunc()(p); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg("Copied: " + p) }
}

// copyVisible copies every displayed path, relative to the root, one per line.
func (m Model) copyVisible() tea.Cmd {
	if len(m.view.Flat) == 0 {
		return func() tea.Msg { return statusMsg("Nothing to copy") }
	}
	if err := m.copyFunc()(strings.Join(m.view.Flat, "\n")); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	n := len(m.view.Flat)
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied %d paths", n)) }
}

// preview renders a short description of path: a directory listing for
// directories, highlighted leading content for text files.
func preview(path string, lines int) string {
	info, err := os.Lstat(path)
	if err != nil {
		return errStyle.Render(err.Error())
	}
	if info.IsDir() {
		return previewDir(path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Sprintf("%s (%s)", info.Mode().Type(), humanSize(info.Size()))
	}
	head, err := readHead(path, previewBytes)
	if err != nil {
		return errStyle.Render(err.Error())
	}
	header := fmt.Sprintf("file, %s\n\n", humanSize(info.Size()))
	if !looksText(head) {
		return header + "(binary)"
	}
	text := firstLines(string(head), max(lines, 10))
	return header + highlightCode(text, filepath.Base(path))
}

func previewDir(path string) string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return errStyle.Render(err.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "directory, %d entries\n\n", len(entries))
	for i, e := range entries {
		if i == previewEntries {
			fmt.Fprintf(&b, "... %d more\n", len(entries)-previewEntries)
			break
		}
		name := e.Name()
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}

func readHead(path string, n int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, n))
}

func looksText(b []byte) bool {
	if bytes.IndexByte(b, 0) >= 0 {
		return false
	}
	// a multi-byte rune may be cut at the read boundary
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

func firstLines(s string, n int) string {
	parts := strings.SplitN(s, "\n", n+1)
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, "\n")
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func highlightCode(code string, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
