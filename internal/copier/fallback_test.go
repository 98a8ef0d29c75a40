package copier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type copyRecorder struct {
	copies [][2]string
	err    error
}

func (r *copyRecorder) EnsureDirectory(string) error         { return nil }
func (r *copyRecorder) WriteFile(string, string) error        { return nil }
func (r *copyRecorder) RemoveDirectoryTree(string) error      { return nil }
func (r *copyRecorder) ReadSchemaFile(string) ([]byte, error) { return nil, nil }
func (r *copyRecorder) CopyFilePreservingTimestamps(src, dst string) error {
	r.copies = append(r.copies, [2]string{src, dst})
	return r.err
}

func TestIOCopier(t *testing.T) {
	io := &copyRecorder{}
	var progress []int

	require.NoError(t, IOCopier{IO: io}.Copy(context.Background(), "a.wav", "out/a.wav", func(p int) { progress = append(progress, p) }))
	assert.Equal(t, [][2]string{{"a.wav", "out/a.wav"}}, io.copies)
	assert.Equal(t, []int{100}, progress)

	io.err = errors.New("disk full")
	assert.EqualError(t, IOCopier{IO: io}.Copy(context.Background(), "b.wav", "out/b.wav", nil), "disk full")
}
