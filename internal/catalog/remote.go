package catalog

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteLoader downloads a CSV dataset over HTTP.
type RemoteLoader struct {
	url    string
	client *resty.Client
}

func NewRemoteLoader(url string, timeout time.Duration) *RemoteLoader {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Accept", "text/csv")

	return &RemoteLoader{url: url, client: client}
}

func (l *RemoteLoader) Load(ctx context.Context) ([]RawRecord, error) {
	if l.url == "" {
		return nil, fmt.Errorf("remote catalog source requires a url")
	}

	resp, err := l.client.R().
		SetContext(ctx).
		Get(l.url)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download catalog: %s returned %s", l.url, resp.Status())
	}

	records, err := parseCSV(bytes.NewReader(resp.Body()), path.Base(l.url))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s returned no rows", ErrEmptyCatalog, l.url)
	}

	return records, nil
}
