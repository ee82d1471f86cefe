package news

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// HeadlessRenderer loads a page in headless Chromium and reads body text.
type HeadlessRenderer struct {
	chromePath string
	timeout    time.Duration
}

func NewHeadlessRenderer() *HeadlessRenderer {
	return &HeadlessRenderer{
		chromePath: detectChromePath(),
		timeout:    30 * time.Second,
	}
}

func (h *HeadlessRenderer) RenderText(ctx context.Context, url string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	}
	if h.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(h.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var text string
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Text("body", &text, chromedp.ByQuery),
	); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func detectChromePath() string {
	if p := strings.TrimSpace(os.Getenv("CHROME_PATH")); p != "" {
		return p
	}
	for _, p := range []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
