package dep

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// postJson posts body as JSON and decodes the response into dst.
// It returns the response status code; decoding is skipped for empty bodies.
func postJson(ctx context.Context, client *http.Client, url string, headers map[string]string, body, dst interface{}) (int, error) {
	js, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(js))
	if err != nil {
		return 0, err
	}

	req.Header.Add("accept", "application/json")
	req.Header.Add("content-type", "application/json")
	for k, v := range headers {
		req.Header.Add(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = res.Body.Close()
	}()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, err
	}

	if len(b) > 0 && dst != nil {
		if err := json.Unmarshal(b, dst); err != nil {
			return res.StatusCode, err
		}
	}

	return res.StatusCode, nil
}
