package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const (
	MaxBodySize = 1 << 20 // 1MB
)

func ReadJsonBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	d := json.NewDecoder(io.LimitReader(r.Body, MaxBodySize))

	if err := d.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
