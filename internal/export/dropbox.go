package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/strummet/pricewatch/internal/config"
	"github.com/strummet/pricewatch/internal/obs"
)

const (
	defaultContentURL = "https://content.dropboxapi.com"
	defaultAPIURL     = "https://api.dropboxapi.com"
)

// DropboxClient uploads files with a refreshable bearer credential. When an
// upload is rejected as unauthorized, one refresh-token exchange is
// attempted before giving up.
type DropboxClient struct {
	AppKey       string
	AppSecret    string
	RefreshToken string

	HTTPClient *http.Client
	ContentURL string
	APIURL     string

	mu          sync.Mutex
	accessToken string
}

// NewDropboxClient creates a client from the configured credentials.
func NewDropboxClient(cfg config.DropboxConfig) *DropboxClient {
	return &DropboxClient{
		AppKey:       cfg.AppKey,
		AppSecret:    cfg.AppSecret,
		RefreshToken: cfg.RefreshToken,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		ContentURL:   defaultContentURL,
		APIURL:       defaultAPIURL,
		accessToken:  cfg.AccessToken,
	}
}

// Upload writes data to path, overwriting any existing file.
func (c *DropboxClient) Upload(ctx context.Context, path string, data []byte) error {
	status, err := c.upload(ctx, path, data)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		obs.Logger.Info("dropbox access token rejected, refreshing")
		if err := c.refreshAccessToken(ctx); err != nil {
			return fmt.Errorf("refresh dropbox token: %w", err)
		}
		status, err = c.upload(ctx, path, data)
		if err != nil {
			return err
		}
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("dropbox upload %s: unexpected status %d", path, status)
	}
	return nil
}

func (c *DropboxClient) upload(ctx context.Context, path string, data []byte) (int, error) {
	arg, err := json.Marshal(map[string]any{
		"path": path,
		"mode": "overwrite",
		"mute": true,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ContentURL+"/2/files/upload", bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token())
	req.Header.Set("Dropbox-API-Arg", string(arg))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *DropboxClient) refreshAccessToken(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.RefreshToken},
		"client_id":     {c.AppKey},
		"client_secret": {c.AppSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if body.AccessToken == "" {
		return fmt.Errorf("token refresh: empty access token")
	}

	c.mu.Lock()
	c.accessToken = body.AccessToken
	c.mu.Unlock()
	return nil
}

func (c *DropboxClient) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}
