package lang

import (
	"io"

	"github.com/klauspost/readahead"
)

// ParseReader parses a program from a reader. Input is prefetched through an
// asynchronous read-ahead buffer so parsing large scripts from slow sources
// (pipes, network mounts) overlaps I/O with lexing.
func ParseReader(r io.Reader) (*Node, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	source, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(string(source))
}

// ReadSource drains a reader through the same read-ahead buffering as
// ParseReader and returns the raw text. Callers that need both the source
// and its AST read once and call Parse themselves.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	source, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(source), nil
}
