// Package bif implements the tagged-field binary-interchange format
// the snapshot harness consumes: a sequence of fields, each `:` then a
// kind byte (`i` integer or `b` blob), a space, a space-terminated
// name, the value, and a newline. Blob values carry a decimal byte
// count, a newline, the raw bytes, and a trailing newline.
package bif

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	pkgerrors "github.com/pkg/errors"
)

type FieldKind byte

const (
	Integer FieldKind = 'i'
	Blob    FieldKind = 'b'
)

type Field struct {
	Kind FieldKind
	Name string
	Int  int64
	Blob []byte
}

type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteInt(name string, value int64) error {
	_, err := fmt.Fprintf(w.w, ":i %s %d\n", name, value)
	return pkgerrors.Wrapf(err, "writing field %s", name)
}

func (w *Writer) WriteBlob(name string, data []byte) error {
	if _, err := fmt.Fprintf(w.w, ":b %s %d\n", name, len(data)); err != nil {
		return pkgerrors.Wrapf(err, "writing field %s", name)
	}
	if _, err := w.w.Write(data); err != nil {
		return pkgerrors.Wrapf(err, "writing field %s", name)
	}
	if _, err := io.WriteString(w.w, "\n"); err != nil {
		return pkgerrors.Wrapf(err, "writing field %s", name)
	}
	return nil
}

type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next reads one field. io.EOF is returned at a clean end of input.
func (r *Reader) Next() (Field, error) {
	var f Field

	colon, err := r.r.ReadByte()
	if err != nil {
		return f, err
	}
	if colon != ':' {
		return f, fmt.Errorf("expected ':' at field start, got %q", colon)
	}

	kind, err := r.r.ReadByte()
	if err != nil {
		return f, pkgerrors.Wrap(err, "reading field kind")
	}
	if kind != byte(Integer) && kind != byte(Blob) {
		return f, fmt.Errorf("unknown field kind %q", kind)
	}
	f.Kind = FieldKind(kind)

	if sp, err := r.r.ReadByte(); err != nil {
		return f, pkgerrors.Wrap(err, "reading field name")
	} else if sp != ' ' {
		return f, fmt.Errorf("expected space after field kind, got %q", sp)
	}

	name, err := r.r.ReadString(' ')
	if err != nil {
		return f, pkgerrors.Wrap(err, "reading field name")
	}
	f.Name = name[:len(name)-1]

	value, err := r.r.ReadString('\n')
	if err != nil {
		return f, pkgerrors.Wrapf(err, "reading field %s", f.Name)
	}
	n, err := strconv.ParseInt(value[:len(value)-1], 10, 64)
	if err != nil {
		return f, pkgerrors.Wrapf(err, "parsing field %s", f.Name)
	}

	if f.Kind == Integer {
		f.Int = n
		return f, nil
	}

	f.Blob = make([]byte, n)
	if _, err := io.ReadFull(r.r, f.Blob); err != nil {
		return f, pkgerrors.Wrapf(err, "reading field %s", f.Name)
	}
	if nl, err := r.r.ReadByte(); err != nil {
		return f, pkgerrors.Wrapf(err, "reading field %s", f.Name)
	} else if nl != '\n' {
		return f, fmt.Errorf("field %s: expected newline after blob, got %q", f.Name, nl)
	}

	return f, nil
}

// Record is the layout the harness expects: exit code, then stdout,
// then stderr.
type Record struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func WriteRecord(w io.Writer, rec Record) error {
	bw := NewWriter(w)
	if err := bw.WriteInt("exit_code", int64(rec.ExitCode)); err != nil {
		return err
	}
	if err := bw.WriteBlob("stdout", rec.Stdout); err != nil {
		return err
	}
	return bw.WriteBlob("stderr", rec.Stderr)
}

func ReadRecord(r io.Reader) (Record, error) {
	var rec Record
	br := NewReader(r)

	exit, err := br.Next()
	if err != nil {
		return rec, err
	}
	if exit.Kind != Integer || exit.Name != "exit_code" {
		return rec, fmt.Errorf("expected i exit_code, got %c %s", exit.Kind, exit.Name)
	}
	rec.ExitCode = int(exit.Int)

	stdout, err := br.Next()
	if err != nil {
		return rec, err
	}
	if stdout.Kind != Blob || stdout.Name != "stdout" {
		return rec, fmt.Errorf("expected b stdout, got %c %s", stdout.Kind, stdout.Name)
	}
	rec.Stdout = stdout.Blob

	stderr, err := br.Next()
	if err != nil {
		return rec, err
	}
	if stderr.Kind != Blob || stderr.Name != "stderr" {
		return rec, fmt.Errorf("expected b stderr, got %c %s", stderr.Kind, stderr.Name)
	}
	rec.Stderr = stderr.Blob

	return rec, nil
}
