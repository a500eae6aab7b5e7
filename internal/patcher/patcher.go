// Package patcher repairs the admin page body in the firmware's main.cpp.
//
// It is a single-use migration. The pattern and the replacement match one
// legacy snippet and are not configurable.
package patcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/allbin/fwkit/internal/logging"
)

const (
	// DefaultFile is the firmware source relative to the PlatformIO project root.
	DefaultFile = "src/main.cpp"

	// Marker anchors the diagnostic excerpt when the pattern does not match.
	Marker = "void handleAdminPage"

	// ExcerptLength is how many characters of context follow the marker.
	ExcerptLength = 1000
)

// brokenBlock spans from the body declaration through the timezone display
// value to the end of the statement: the first string literal closed by `";`
// at the end of a line. Semicolons inside the HTML (`1rem;'>`) do not end it.
var brokenBlock = regexp.MustCompile(`(?sm)String body = "<h2>Administer</h2>" \+ message \+.*?currentTz.*?";[ \t\r]*$`)

// statementEnd trims a match back to its closing `";`, leaving trailing
// whitespace and line endings in place.
func statementEnd(match string) int {
	return strings.LastIndex(match, `";`) + len(`";`)
}

// Replacement is the corrected admin page body.
const Replacement = `    String body = "<h2>Administer</h2>" + message +
                  "<div style='display: flex; gap: 2rem;'>" +
                  "<div class='card' style='flex: 1;'>" +
                  "<h3>Change Password</h3>" +
                  "<form action='/admin/changepass' method='POST'>" +
                  "<div class='form-group'><label>Current Password</label><input type='password' name='current_password' required></div>" +
                  "<div class='form-group'><label>New Password</label><input type='password' name='new_password' pattern='(?=.*\\d)(?=.*[a-z])(?=.*[A-Z])(?=.*[^A-Za-z0-9]).{8,}' title='Must contain at least one number, one uppercase, one lowercase, one special character, and at least 8 or more characters' required></div>" +
                  "<div class='form-group'><label>Confirm New Password</label><input type='password' name='confirm_password' required></div>" +
                  "<button type='submit'>Update Password</button>" +
                  "</form>" +
                  "</div>" +
                  "<div class='card' style='flex: 1;'>" +
                  "<h3>System</h3>" +
                  "<p>The currently set timezone is: <strong>" + currentTz + "</strong></p>" +
                  "<form action='/admin/find-timezone' method='POST' style='margin-bottom:1rem;'>" +
                  "<button type='submit'>Auto-Detect Timezone</button>" +
                  "</form>" +
                  "<form action='/admin/reboot' method='POST' onsubmit='return confirm(\"Are you sure you want to reboot?\" );' style='margin-bottom:1rem;'>" +
                  "<button type='submit'>Reboot Device</button>" +
                  "</form>" +
                  "<form action='/factory-reset' method='POST' onsubmit='return confirm(\"Are you sure? This erases all settings.\" );'>" +
                  "<button type='submit' class='danger'>Factory Reset</button>" +
                  "</form>" +
                  "</div>" +
                  "</div>";`

// patchedPrefix is what a match starts with once the file has been fixed.
var patchedPrefix = strings.TrimLeft(Replacement, " ")

// Outcome is the result of one patch attempt.
type Outcome int

const (
	OutcomePatched Outcome = iota
	OutcomeNotFound
	OutcomeMarkerMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomePatched:
		return "patched"
	case OutcomeNotFound:
		return "not found"
	case OutcomeMarkerMissing:
		return "marker missing"
	default:
		return "unknown"
	}
}

// Result describes what Apply or Run did.
type Result struct {
	Outcome      Outcome
	Replacements int
	// Excerpt holds up to ExcerptLength characters from the marker when
	// Outcome is OutcomeNotFound.
	Excerpt string
}

// Apply replaces every broken block in content. Blocks that already carry
// the corrected body are left alone, so running Apply on its own output
// changes nothing.
func Apply(content string) (string, Result) {
	var b strings.Builder
	replaced := 0
	last := 0

	for _, loc := range brokenBlock.FindAllStringIndex(content, -1) {
		if strings.HasPrefix(content[loc[0]:], patchedPrefix) {
			continue
		}
		b.WriteString(content[last:loc[0]])
		b.WriteString(Replacement)
		last = loc[0] + statementEnd(content[loc[0]:loc[1]])
		replaced++
	}

	if replaced > 0 {
		b.WriteString(content[last:])
		return b.String(), Result{Outcome: OutcomePatched, Replacements: replaced}
	}

	idx := strings.Index(content, Marker)
	if idx < 0 {
		return content, Result{Outcome: OutcomeMarkerMissing}
	}
	return content, Result{Outcome: OutcomeNotFound, Excerpt: excerpt(content[idx:], ExcerptLength)}
}

// excerpt returns the first n characters of s
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Patcher applies the fix to a file on fs.
type Patcher struct {
	fs afero.Fs
}

// New returns a Patcher working on fs.
func New(fs afero.Fs) *Patcher {
	return &Patcher{fs: fs}
}

// Run reads path, applies the fix and, only if something was replaced,
// overwrites path. No backup is kept.
func (p *Patcher) Run(path string) (Result, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("%s is a directory", path)
	}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, result := Apply(string(data))
	logging.Debugf("patch %s: %s (%d replacements)", path, result.Outcome, result.Replacements)
	if result.Outcome != OutcomePatched {
		return result, nil
	}

	if err := p.writeAtomic(path, []byte(updated), info.Mode().Perm()); err != nil {
		return Result{}, err
	}
	return result, nil
}

// writeAtomic writes data next to path and renames it into place
func (p *Patcher) writeAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := afero.TempFile(p.fs, filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			p.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err = p.fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err = p.fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Report prints the outcome in the format the firmware workflow expects.
func Report(w io.Writer, r Result) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	switch r.Outcome {
	case OutcomePatched:
		printf("Successfully found and replaced the code block.\n")
	case OutcomeNotFound:
		printf("Error: Could not find the code block to replace.\n")
		printf("DEBUG: Content around handleAdminPage:\n")
		printf("%s\n", r.Excerpt)
	case OutcomeMarkerMissing:
		printf("Error: Could not find the code block to replace.\n")
		printf("DEBUG: '%s' not found in the file.\n", Marker)
	default:
		err = errors.New("unknown patch outcome")
	}
	return err
}
