package copier

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
)

var percentMarker = regexp.MustCompile(`(\d{1,3})%`)

// parsePercent returns the last NN% marker of a progress line.
func parsePercent(line string) (int, bool) {
	matches := percentMarker.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil || n > 100 {
		return 0, false
	}
	return n, true
}

// scanProgressLines splits on '\r' as well as '\n': rsync redraws its
// progress line with carriage returns.
func scanProgressLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// readProgress forwards increasing percentages from r until EOF and returns
// the last one, or -1.
func readProgress(r io.Reader, onProgress func(int)) int {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanProgressLines)
	last := -1
	for scanner.Scan() {
		p, ok := parsePercent(scanner.Text())
		if !ok || p <= last {
			continue
		}
		last = p
		if onProgress != nil {
			onProgress(p)
		}
	}
	// drain so the process never blocks on a full pipe
	_, _ = io.Copy(io.Discard, r)
	return last
}
