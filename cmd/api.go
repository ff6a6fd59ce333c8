package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
)

var apiAddr string

// callAPI performs one request against a running serve instance and
// pretty-prints the JSON response. Non-2xx responses become errors carrying
// the server's error message.
func callAPI(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiAddr+path, reader)
	if err != nil {
		return eris.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrapf(err, "call %s (is serve running?)", apiAddr)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return eris.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return eris.Errorf("%s", resp.Status)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		os.Stdout.Write(data)
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "addr", "http://localhost:8080", "address of a running serve instance")
}
