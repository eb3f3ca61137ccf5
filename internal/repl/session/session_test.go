package session

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"mvdan.cc/sh/v3/expand"
)

// tempDir returns a fresh temp dir with symlinks resolved, so it compares
// equal to the directories a session records.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

// newTestSession creates a session rooted at a fresh temp dir with the given
// environment pairs.
func newTestSession(t *testing.T, env ...string) (*Session, string) {
	t.Helper()
	root := tempDir(t)
	s, err := New(Options{
		Dir:    root,
		Env:    expand.ListEnviron(env...),
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return s, root
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func TestNew(t *testing.T) {
	t.Run("defaults to process working directory", func(t *testing.T) {
		s, err := New(Options{})
		require.NoError(t, err)

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, wd, s.Dir())
		assert.NotNil(t, s.Env())
	})

	t.Run("rejects missing directory", func(t *testing.T) {
		_, err := New(Options{Dir: filepath.Join(t.TempDir(), "missing")})
		assert.Error(t, err)
	})

	t.Run("rejects regular file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := New(Options{Dir: file})
		assert.Error(t, err)
	})
}

func TestSession_HomeAndUser(t *testing.T) {
	t.Run("reads from session environment", func(t *testing.T) {
		s, _ := newTestSession(t, "HOME=/home/alice", "USER=alice")

		home, err := s.Home()
		require.NoError(t, err)
		assert.Equal(t, "/home/alice", home)

		user, err := s.User()
		require.NoError(t, err)
		assert.Equal(t, "alice", user)
	})

	t.Run("unset variables are environment errors", func(t *testing.T) {
		s, _ := newTestSession(t)

		_, err := s.Home()
		var envErr *EnvError
		require.True(t, errors.As(err, &envErr))
		assert.Equal(t, "HOME", envErr.Name)
		assert.Equal(t, "home directory not set", err.Error())

		_, err = s.User()
		require.True(t, errors.As(err, &envErr))
		assert.Equal(t, "USER not set", err.Error())
	})

	t.Run("empty variables are environment errors", func(t *testing.T) {
		s, _ := newTestSession(t, "HOME=", "USER=")

		_, err := s.Home()
		assert.Error(t, err)
		_, err = s.User()
		assert.Error(t, err)
	})
}

func TestSession_ChangeDir(t *testing.T) {
	t.Run("absolute path", func(t *testing.T) {
		s, root := newTestSession(t)
		target := mkdir(t, root, "a", "b")

		require.NoError(t, s.ChangeDir(target))
		assert.Equal(t, target, s.Dir())
	})

	t.Run("relative path resolves against working directory", func(t *testing.T) {
		s, root := newTestSession(t)
		mkdir(t, root, "a", "b")

		require.NoError(t, s.ChangeDir("a"))
		require.NoError(t, s.ChangeDir("b"))
		assert.Equal(t, filepath.Join(root, "a", "b"), s.Dir())
	})

	t.Run("dot dot returns to parent", func(t *testing.T) {
		s, root := newTestSession(t)
		target := mkdir(t, root, "child")

		require.NoError(t, s.ChangeDir(target))
		require.NoError(t, s.ChangeDir(".."))
		assert.Equal(t, root, s.Dir())
	})

	t.Run("dot dot at filesystem root stays at root", func(t *testing.T) {
		s, _ := newTestSession(t)

		require.NoError(t, s.ChangeDir("/"))
		require.NoError(t, s.ChangeDir(".."))
		assert.Equal(t, "/", s.Dir())
	})

	t.Run("tilde resolves to HOME", func(t *testing.T) {
		home := tempDir(t)
		s, _ := newTestSession(t, "HOME="+home)

		require.NoError(t, s.ChangeDir("~"))
		assert.Equal(t, home, s.Dir())
	})

	t.Run("tilde without HOME leaves directory unchanged", func(t *testing.T) {
		s, root := newTestSession(t)

		err := s.ChangeDir("~")
		var envErr *EnvError
		require.True(t, errors.As(err, &envErr))
		assert.Equal(t, root, s.Dir())
	})

	t.Run("missing directory leaves directory unchanged", func(t *testing.T) {
		s, root := newTestSession(t)

		err := s.ChangeDir("does-not-exist")
		require.Error(t, err)

		var navErr *NavigationError
		require.True(t, errors.As(err, &navErr))
		assert.Equal(t, "does-not-exist", navErr.Path)
		assert.ErrorIs(t, err, syscall.ENOENT)
		assert.Equal(t, "does-not-exist: no such file or directory", err.Error())
		assert.Equal(t, root, s.Dir())
	})

	t.Run("dot dot through a missing directory fails", func(t *testing.T) {
		s, root := newTestSession(t)

		err := s.ChangeDir("does-not-exist/..")
		assert.ErrorIs(t, err, syscall.ENOENT)
		assert.Equal(t, "does-not-exist/..: no such file or directory", err.Error())
		assert.Equal(t, root, s.Dir())
	})

	t.Run("symlinked directory records its target", func(t *testing.T) {
		s, root := newTestSession(t)
		target := mkdir(t, root, "x", "target")
		require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))

		require.NoError(t, s.ChangeDir("link"))
		assert.Equal(t, target, s.Dir())
	})

	t.Run("dot dot after a symlink goes to the parent of its target", func(t *testing.T) {
		s, root := newTestSession(t)
		target := mkdir(t, root, "x", "target")
		require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))

		require.NoError(t, s.ChangeDir("link"))
		require.NoError(t, s.ChangeDir(".."))
		assert.Equal(t, filepath.Join(root, "x"), s.Dir())
	})

	t.Run("dot dot inside a path is resolved by the filesystem", func(t *testing.T) {
		s, root := newTestSession(t)
		mkdir(t, root, "a", "b")

		require.NoError(t, s.ChangeDir("a/b/../b/.."))
		assert.Equal(t, filepath.Join(root, "a"), s.Dir())
	})

	t.Run("regular file is not a directory", func(t *testing.T) {
		s, root := newTestSession(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))

		err := s.ChangeDir("notes.txt")
		assert.ErrorIs(t, err, syscall.ENOTDIR)
		assert.Equal(t, "notes.txt: not a directory", err.Error())
		assert.Equal(t, root, s.Dir())
	})

	t.Run("unsearchable directory is permission denied", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root bypasses directory permissions")
		}
		s, root := newTestSession(t)
		locked := mkdir(t, root, "locked")
		require.NoError(t, os.Chmod(locked, 0600))
		defer os.Chmod(locked, 0755)

		err := s.ChangeDir("locked")
		assert.ErrorIs(t, err, syscall.EACCES)
		assert.Equal(t, root, s.Dir())
	})

	t.Run("sync process follows the session", func(t *testing.T) {
		original, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(original)

		root := tempDir(t)
		s, err := New(Options{
			Dir:         root,
			Env:         expand.ListEnviron(),
			SyncProcess: true,
		})
		require.NoError(t, err)
		target := mkdir(t, root, "synced")

		require.NoError(t, s.ChangeDir(target))

		wd, err := os.Getwd()
		require.NoError(t, err)
		wantInfo, err := os.Stat(target)
		require.NoError(t, err)
		gotInfo, err := os.Stat(wd)
		require.NoError(t, err)
		assert.True(t, os.SameFile(wantInfo, gotInfo))
	})
}

func TestSession_Getwd(t *testing.T) {
	s, root := newTestSession(t)
	gone := mkdir(t, root, "gone")
	require.NoError(t, s.ChangeDir(gone))

	wd, err := s.Getwd()
	require.NoError(t, err)
	assert.Equal(t, gone, wd)

	require.NoError(t, os.Remove(gone))
	_, err = s.Getwd()
	assert.Error(t, err)
}

func TestAbbreviate(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		home string
		want string
	}{
		{"home itself", "/home/alice", "/home/alice", "~"},
		{"descendant", "/home/alice/src/rshell", "/home/alice", "~/src/rshell"},
		{"home with trailing slash", "/home/alice/src", "/home/alice/", "~/src"},
		{"outside home", "/etc", "/home/alice", "/etc"},
		{"sibling with shared prefix", "/home/alicebob", "/home/alice", "/home/alicebob"},
		{"parent of home", "/home", "/home/alice", "/home"},
		{"dot dot named child", "/home/alice/..hidden", "/home/alice", "~/..hidden"},
		{"empty home", "/home/alice", "", "/home/alice"},
		{"root home", "/usr/bin", "/", "~/usr/bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Abbreviate(tt.dir, tt.home))
		})
	}
}
