package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// MakeRequest makes an HTTP request with the given parameters
func MakeRequest(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}

// ReadResponseBody reads and unmarshals the response body
func ReadResponseBody(resp *http.Response, v any) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}
