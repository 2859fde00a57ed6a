package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// AppendPages appends each attachment document after the cover, in the
// order given. A single unreadable attachment fails the whole merge.
func AppendPages(cover []byte, attachments [][]byte) ([]byte, error) {
	if len(attachments) == 0 {
		return cover, nil
	}

	for i, a := range attachments {
		if _, err := api.PageCount(bytes.NewReader(a), nil); err != nil {
			return nil, fmt.Errorf("attachment %d is not a readable pdf: %w", i+1, err)
		}
	}

	readers := make([]io.ReadSeeker, 0, len(attachments)+1)
	readers = append(readers, bytes.NewReader(cover))
	for _, a := range attachments {
		readers = append(readers, bytes.NewReader(a))
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, nil); err != nil {
		return nil, fmt.Errorf("merge attachment pages: %w", err)
	}
	return out.Bytes(), nil
}
