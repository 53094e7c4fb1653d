package timelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxLineBytes = 1 << 20

// Diagnostic describes a log line (or the whole file, when Line is 0) that
// could not be loaded.
type Diagnostic struct {
	Line   int
	Text   string
	Reason string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Reason
	}
	return fmt.Sprintf("Line #%d: %s\n%s", d.Line, d.Text, d.Reason)
}

// Snapshot is the result of loading a log file.
type Snapshot struct {
	Totals      *Totals
	Weeks       []time.Time
	Diagnostics []Diagnostic
}

// Errors joins all diagnostics into one human-readable message, or returns
// "" when the load was clean.
func (s *Snapshot) Errors() string {
	lines := make([]string, 0, len(s.Diagnostics))
	for _, d := range s.Diagnostics {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

func emptySnapshot(diags ...Diagnostic) *Snapshot {
	return &Snapshot{Totals: NewTotals(), Diagnostics: diags}
}

// Load reads the log at path. It never fails: a missing file yields an empty
// snapshot, malformed lines are skipped with a diagnostic, and any other I/O
// failure yields an empty snapshot with a single diagnostic.
func Load(path string) *Snapshot {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptySnapshot()
	}
	if err != nil {
		return emptySnapshot(Diagnostic{Reason: fmt.Sprintf("File IO exception: %v", err)})
	}
	defer f.Close()
	return Read(f)
}

// Read parses log lines from r. See Load.
func Read(r io.Reader) *Snapshot {
	totals := NewTotals()
	var diags []Diagnostic

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			diags = append(diags, Diagnostic{Line: lineno, Text: line, Reason: err.Error()})
			continue
		}
		totals.Add(e)
	}
	if err := sc.Err(); err != nil {
		return emptySnapshot(Diagnostic{Reason: fmt.Sprintf("File IO exception: %v", err)})
	}

	return &Snapshot{Totals: totals, Weeks: totals.Weeks(), Diagnostics: diags}
}

// Append writes one entry at the end of the log, creating the file and its
// directory when needed. Existing content is never rewritten.
func Append(path string, e Entry) error {
	if err := e.validate(); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	if _, err := f.WriteString(e.Line() + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write log: %w", err)
	}
	return f.Close()
}

// Clear truncates the log. With keepTaskNames, the file is re-seeded with a
// zero-minute placeholder per task name found in it, dated now.
func Clear(path string, keepTaskNames bool, now time.Time) error {
	var tasks []string
	if keepTaskNames {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("read log: %w", err)
		default:
			snap := Read(f)
			f.Close()
			tasks = snap.Totals.Tasks()
		}
	}

	var b strings.Builder
	for _, task := range tasks {
		e := NewEntry(now, now, task)
		if e.validate() != nil {
			continue
		}
		b.WriteString(e.Line())
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("clear log: %w", err)
	}
	return nil
}
