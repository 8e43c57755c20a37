package testhelper

import (
	"fmt"
	"os"

	"github.com/nilfs2/gonilfs2/backend"
)

type reader func(b []byte, offset int64) (int, error)
type writer func(b []byte, offset int64) (int, error)

// FileImpl implements backend.File, used for stubbing out files in tests.
type FileImpl struct {
	Reader reader
	Writer writer
}

func (f *FileImpl) Stat() (os.FileInfo, error) {
	return nil, nil
}

func (f *FileImpl) Read(b []byte) (int, error) {
	return f.Reader(b, 0)
}

func (f *FileImpl) Close() error {
	return nil
}

// ReadAt read at a particular offset
func (f *FileImpl) ReadAt(b []byte, offset int64) (int, error) {
	return f.Reader(b, offset)
}

// WriteAt write at a particular offset
func (f *FileImpl) WriteAt(b []byte, offset int64) (int, error) {
	return f.Writer(b, offset)
}

// Seek seek a particular offset - does not actually work
//
//nolint:unused,revive // to implement the interface
func (f *FileImpl) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("FileImpl does not implement Seek()")
}

// FakeStorage is a backend.Storage test double that records every
// WriteAt call (offset and length, in order) instead of touching a real
// device, so tests can assert write ordering without a temp file.
type FakeStorage struct {
	FileImpl
	Writes    []WriteCall
	FailAfter int // if > 0, the (FailAfter+1)'th WriteAt call returns failErr
	failErr   error
}

// WriteCall records one WriteAt invocation observed by FakeStorage.
type WriteCall struct {
	Offset int64
	Length int
}

// NewFakeStorage returns a FakeStorage with no induced failures.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{failErr: fmt.Errorf("testhelper: induced write failure")}
}

func (s *FakeStorage) WriteAt(b []byte, offset int64) (int, error) {
	s.Writes = append(s.Writes, WriteCall{Offset: offset, Length: len(b)})
	if s.FailAfter > 0 && len(s.Writes) > s.FailAfter {
		return 0, s.failErr
	}
	return len(b), nil
}

func (s *FakeStorage) Sys() (*os.File, error) {
	return nil, fmt.Errorf("testhelper: FakeStorage has no backing *os.File")
}

func (s *FakeStorage) Writable() (backend.WritableFile, error) {
	return s, nil
}

var (
	_ backend.Storage      = (*FakeStorage)(nil)
	_ backend.WritableFile = (*FakeStorage)(nil)
)
