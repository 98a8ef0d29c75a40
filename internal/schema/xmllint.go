package schema

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// XMLLint validates by running `xmllint --noout --schema`.
type XMLLint struct {
	// Path is the xmllint executable. Empty means "xmllint" on PATH.
	Path string
}

// xmllint exit codes for an invalid document; anything else non-zero means
// validation did not run.
const (
	xmllintInvalid       = 3
	xmllintInvalidSchema = 4
	xmllintSchemaError   = 5
)

var xmllintLine = regexp.MustCompile(`^(.*?):(\d+): (.*)$`)

// Available reports whether the executable can be found.
func (x XMLLint) Available() bool {
	_, err := exec.LookPath(x.path())
	return err == nil
}

func (x XMLLint) path() string {
	if x.Path != "" {
		return x.Path
	}
	return "xmllint"
}

// Validate implements Backend.
func (x XMLLint) Validate(ctx context.Context, document []byte, schemaName string, schema []byte) (Result, error) {
	dir, err := os.MkdirTemp("", "imdix-xmllint-*")
	if err != nil {
		return Result{}, fmt.Errorf("xmllint workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	schemaPath := filepath.Join(dir, filepath.Base(schemaName))
	docPath := filepath.Join(dir, "document.xml")
	if err := os.WriteFile(schemaPath, schema, 0o644); err != nil {
		return Result{}, fmt.Errorf("xmllint workspace: %w", err)
	}
	if err := os.WriteFile(docPath, document, 0o644); err != nil {
		return Result{}, fmt.Errorf("xmllint workspace: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, x.path(), "--noout", "--schema", schemaPath, docPath)
	cmd.Stderr = &stderr
	err = cmd.Run()
	if err == nil {
		return valid(), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Result{}, fmt.Errorf("run xmllint: %w", err)
	}
	switch exitErr.ExitCode() {
	case xmllintInvalid, xmllintInvalidSchema:
		return parseXMLLintOutput(stderr.String(), docPath), nil
	case xmllintSchemaError:
		return Result{}, fmt.Errorf("xmllint could not compile %s: %s", schemaName, strings.TrimSpace(stderr.String()))
	}
	// well-formedness errors (exit 1) are reported like validity errors
	if r := parseXMLLintOutput(stderr.String(), docPath); r.HasErrors() {
		return r, nil
	}
	return Result{}, fmt.Errorf("xmllint failed (exit %d): %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
}

// parseXMLLintOutput turns "file:line: message" diagnostics for docPath into
// issues. The trailing "fails to validate" summary is dropped.
func parseXMLLintOutput(output, docPath string) Result {
	r := Result{Valid: true}
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		m := xmllintLine.FindStringSubmatch(line)
		if m == nil || m[1] != docPath {
			continue
		}
		n, _ := strconv.Atoi(m[2])
		msg := m[3]
		if i := strings.Index(msg, "Schemas validity error : "); i >= 0 {
			msg = msg[i+len("Schemas validity error : "):]
		}
		r.AddError(n, "%s", stripNamespaces(msg))
	}
	return r
}

var clarkName = regexp.MustCompile(`\{[^}'\s]*\}`)

// stripNamespaces rewrites "{http://...}Genre" to "Genre".
func stripNamespaces(msg string) string {
	return clarkName.ReplaceAllString(msg, "")
}
