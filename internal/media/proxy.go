package media

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const fetchTimeout = 10 * time.Second

// Proxy fetches pasted image links on behalf of the page and substitutes
// the embedded placeholder when a link is dead, so one broken avatar never
// blocks the rest of the content.
type Proxy struct {
	client *http.Client
	logger *slog.Logger
}

func NewProxy(logger *slog.Logger) *Proxy {
	return &Proxy{
		client: &http.Client{Timeout: fetchTimeout},
		logger: logger,
	}
}

// ServeImage godoc
// @Summary      Fetch a profile image
// @Description  Proxies a stored image link, falling back to a placeholder when the link cannot be loaded.
// @Tags         Media
// @Produce      image/*
// @Param        src query string true "Image URL"
// @Success      200 {file} binary "Image bytes, or the placeholder with X-Image-Fallback: 1"
// @Router       /media/image [get]
func (p *Proxy) ServeImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	src := r.URL.Query().Get("src")
	if src == "" {
		p.servePlaceholder(w)
		return
	}

	src = NormalizeLink(src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		p.logger.WarnContext(ctx, "Invalid image link, serving placeholder",
			slog.String("src", src), slog.Any("error", err))
		p.servePlaceholder(w)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WarnContext(ctx, "Image fetch failed, serving placeholder",
			slog.String("src", src), slog.Any("error", err))
		p.servePlaceholder(w)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(contentType, "image/") {
		p.logger.WarnContext(ctx, "Image link did not return an image, serving placeholder",
			slog.String("src", src),
			slog.Int("status", resp.StatusCode),
			slog.String("content_type", contentType))
		p.servePlaceholder(w)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.WarnContext(ctx, "Streaming image to client failed",
			slog.String("src", src), slog.Any("error", err))
	}
}

func (p *Proxy) servePlaceholder(w http.ResponseWriter) {
	w.Header().Set("Content-Type", placeholderContentType)
	w.Header().Set("X-Image-Fallback", "1")
	w.WriteHeader(http.StatusOK)
	w.Write(placeholder)
}
