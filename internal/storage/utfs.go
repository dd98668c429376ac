package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wahlware/wahlhost/internal/config"
)

// UTFSClient talks to the upload host's JSON API.
type UTFSClient struct {
	apiURL string
	apiKey string
	appID  string
	http   *http.Client
}

var _ UploadHost = (*UTFSClient)(nil)

func NewUTFSClient(cfg *config.UTFSConfig, client *http.Client) *UTFSClient {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &UTFSClient{
		apiURL: cfg.ApiURL,
		apiKey: cfg.ApiKey,
		appID:  cfg.AppID,
		http:   client,
	}
}

type utfsUploadRequest struct {
	URL string `json:"url"`
}

type utfsUploadResponse struct {
	Data struct {
		Key string `json:"key"`
		URL string `json:"url"`
	} `json:"data"`
}

type utfsDeleteRequest struct {
	FileKeys []string `json:"fileKeys"`
}

type utfsDeleteResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}

func (c *UTFSClient) do(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	if c.appID != "" {
		req.Header.Set("X-App-Id", c.appID)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("upload host returned %d: %s", res.StatusCode, string(msg))
	}

	return json.NewDecoder(res.Body).Decode(out)
}

func (c *UTFSClient) UploadFromURL(ctx context.Context, srcURL string) (*UploadResult, error) {
	var res utfsUploadResponse
	if err := c.do(ctx, "/v1/uploadFromUrl", &utfsUploadRequest{URL: srcURL}, &res); err != nil {
		return nil, err
	}
	return &UploadResult{Key: res.Data.Key, URL: res.Data.URL}, nil
}

func (c *UTFSClient) DeleteByKey(ctx context.Context, key string) (*DeleteResult, error) {
	var res utfsDeleteResponse
	if err := c.do(ctx, "/v1/deleteFiles", &utfsDeleteRequest{FileKeys: []string{key}}, &res); err != nil {
		return nil, err
	}
	return &DeleteResult{Success: res.Success, DeletedCount: res.DeletedCount}, nil
}
