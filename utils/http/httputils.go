package httputils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func PostJSON(url string, body interface{}, resp interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	r, err := http.Post(url, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %d", r.StatusCode)
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

// FetchBytes downloads a URL body, bounded to maxBytes.
func FetchBytes(url string, maxBytes int64) ([]byte, string, error) {
	r, err := http.Get(url)
	if err != nil {
		return nil, "", err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("bad status: %d", r.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return nil, "", err
	}
	return data, r.Header.Get("Content-Type"), nil
}
