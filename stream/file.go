package stream

import "os"

// FileReader reads a container from disk, grounded on IfStreamReader
// (original_source/src/io/filestream_module.h).
type FileReader struct {
	f   *os.File
	pos int64
}

// OpenFileReader opens path for reading. The returned Reader's IsValid
// reflects whether the open succeeded; callers should check it (or the
// returned error) before use.
func OpenFileReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return &FileReader{}, err
	}

	return &FileReader{f: f}, nil
}

func (r *FileReader) Read(p []byte) int {
	if r.f == nil {
		return 0
	}

	n, _ := r.f.Read(p)
	r.pos += int64(n)

	return n
}

func (r *FileReader) Seek(offset int64) error {
	if r.f == nil {
		return os.ErrInvalid
	}

	pos, err := r.f.Seek(offset, 0)
	if err != nil {
		return err
	}
	r.pos = pos

	return nil
}

func (r *FileReader) Tell() int64 { return r.pos }

func (r *FileReader) IsValid() bool { return r.f != nil }

// Close releases the underlying file descriptor.
func (r *FileReader) Close() error {
	if r.f == nil {
		return nil
	}

	return r.f.Close()
}

// FileWriter writes a container to disk, grounded on OfStreamWriter
// (original_source/src/io/filestream_module.h).
type FileWriter struct {
	f   *os.File
	pos int64
}

// CreateFileWriter creates (truncating if necessary) path for writing.
func CreateFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return &FileWriter{}, err
	}

	return &FileWriter{f: f}, nil
}

func (w *FileWriter) Write(p []byte) int {
	if w.f == nil {
		return 0
	}

	n, _ := w.f.Write(p)
	w.pos += int64(n)

	return n
}

func (w *FileWriter) Seek(offset int64) error {
	if w.f == nil {
		return os.ErrInvalid
	}

	pos, err := w.f.Seek(offset, 0)
	if err != nil {
		return err
	}
	w.pos = pos

	return nil
}

func (w *FileWriter) Tell() int64 { return w.pos }

func (w *FileWriter) IsValid() bool { return w.f != nil }

// Close flushes and releases the underlying file descriptor.
func (w *FileWriter) Close() error {
	if w.f == nil {
		return nil
	}

	return w.f.Close()
}

var (
	_ Reader = (*FileReader)(nil)
	_ Writer = (*FileWriter)(nil)
)
