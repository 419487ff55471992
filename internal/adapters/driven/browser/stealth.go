package browser

import (
	"math/rand/v2"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// UserAgent is a desktop Chrome identity presented to the site.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Viewport dimensions of every context.
const (
	ViewportWidth  = 1920
	ViewportHeight = 1080
)

// webdriverMask hides the most common automation fingerprints before any
// page script runs.
const webdriverMask = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = window.chrome || { runtime: {} };
`

// disguise applies the user agent, viewport and fingerprint mask to page.
func disguise(page *rod.Page) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      UserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		return err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             ViewportWidth,
		Height:            ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return err
	}
	_, err := page.EvalOnNewDocument(webdriverMask)
	return err
}

// jitter returns a random duration in [lo, hi).
func jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

// humanClick moves the mouse to a random point inside the element's
// central area before clicking, falling back to a plain click.
func humanClick(page *rod.Page, el *rod.Element) error {
	shape, err := el.Shape()
	if err != nil || shape == nil || len(shape.Quads) == 0 {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	box := shape.Box()
	x := box.X + box.Width*(0.3+0.4*rand.Float64())
	y := box.Y + box.Height*(0.3+0.4*rand.Float64())
	if err := page.Mouse.MoveTo(proto.NewPoint(x, y)); err != nil {
		return err
	}
	time.Sleep(jitter(50*time.Millisecond, 150*time.Millisecond))
	return page.Mouse.Click(proto.InputMouseButtonLeft, 1)
}

// humanType inserts text one character at a time with a small random
// delay between characters.
func humanType(page *rod.Page, text string) error {
	for _, r := range text {
		if err := page.InsertText(string(r)); err != nil {
			return err
		}
		time.Sleep(jitter(30*time.Millisecond, 120*time.Millisecond))
	}
	return nil
}
