package packaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

const maxAttachmentBytes = 50 << 20

// fetcher is the slice of the HTTP client used to pull remote attachments.
type fetcher interface {
	DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error)
}

// resolveContent returns the attachment bytes, trying sources in a fixed
/// order: a server-local file first, then inline base64, then a fetchable
// URL. An attachment with no usable source is an error the caller skips.
func (p *Packager) resolveContent(ctx context.Context, att models.Attachment) ([]byte, error) {
	switch {
	case att.LocalPath != "":
		return os.ReadFile(att.LocalPath)
	case att.Base64 != "":
		return decodeInline(att.Base64)
	case att.PreviewURL != "":
		return p.fetch(ctx, att.PreviewURL)
	default:
		return nil, fmt.Errorf("attachment %q has no content source", att.Name)
	}
}

// decodeInline accepts a bare base64 payload or a data URL.
func decodeInline(s string) ([]byte, error) {
	payload := s
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		payload = s[idx+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}

func (p *Packager) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes))
}
