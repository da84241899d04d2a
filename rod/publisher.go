package rod

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/repost"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// PublisherConfig describes the target site. Zero fields take the values
// of DefaultPublisherConfig.
type PublisherConfig struct {
	CookiePath string
	HomeURL    string
	PublishURL string

	// LoginWait bounds how long to wait for a manual login.
	LoginWait time.Duration
	// PollInterval is how often the login state is checked while waiting.
	PollInterval time.Duration
	// FormWait bounds filling and submitting the publish form, so a
	// selector that no longer matches fails instead of waiting forever.
	FormWait time.Duration
	// SettleDelay is how long to wait after clicking submit.
	SettleDelay time.Duration

	Selectors Selectors
}

// Selectors locate the publish form.
type Selectors struct {
	// LoginMarker and LoginText match an element that is only present
	// while logged out.
	LoginMarker string
	LoginText   string

	FileInput string
	Title     string
	Body      string

	// Submit and SubmitText match the publish button.
	Submit     string
	SubmitText string
}

// DefaultPublisherConfig returns the Xiaohongshu settings.
func DefaultPublisherConfig() PublisherConfig {
	return PublisherConfig{
		CookiePath:   ".cookies.json",
		HomeURL:      "https://www.xiaohongshu.com",
		PublishURL:   "https://www.xiaohongshu.com/publish",
		LoginWait:    5 * time.Minute,
		PollInterval: 3 * time.Second,
		FormWait:     2 * time.Minute,
		SettleDelay:  5 * time.Second,
		Selectors: Selectors{
			LoginMarker: "div",
			LoginText:   "^登录$",
			FileInput:   `input[type="file"]`,
			Title:       `[placeholder="标题，添加标题会获得更多赞"]`,
			Body:        `[placeholder="请输入正文"]`,
			Submit:      "button",
			SubmitText:  "发布",
		},
	}
}

func (c PublisherConfig) withDefaults() PublisherConfig {
	d := DefaultPublisherConfig()
	if c.CookiePath == "" {
		c.CookiePath = d.CookiePath
	}
	if c.HomeURL == "" {
		c.HomeURL = d.HomeURL
	}
	if c.PublishURL == "" {
		c.PublishURL = d.PublishURL
	}
	if c.LoginWait == 0 {
		c.LoginWait = d.LoginWait
	}
	if c.PollInterval == 0 {
		c.PollInterval = d.PollInterval
	}
	if c.FormWait == 0 {
		c.FormWait = d.FormWait
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = d.SettleDelay
	}
	if c.Selectors == (Selectors{}) {
		c.Selectors = d.Selectors
	}
	return c
}

// Ensure Publisher implements repost.Publisher at compile time.
var _ repost.Publisher = (*Publisher)(nil)

// Publisher posts through the site's web editor in a visible browser.
// A saved cookie session is reused; otherwise it waits for the user to log
// in by hand and saves the new session.
type Publisher struct {
	cfg    PublisherConfig
	logger *slog.Logger

	// Launch opens the browser. Tests replace it.
	Launch func() (*BrowserManager, error)
}

// NewPublisher creates a new Publisher.
func NewPublisher(cfg PublisherConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{
		cfg:    cfg.withDefaults(),
		logger: logger,
		Launch: func() (*BrowserManager, error) {
			return NewBrowserManager(WithHeadless(false))
		},
	}
}

// Config returns the effective configuration.
func (p *Publisher) Config() PublisherConfig {
	return p.cfg
}

// Publish logs in, uploads the images, fills title and body and submits.
// A failed login is reported as an unsuccessful result.
func (p *Publisher) Publish(ctx context.Context, req repost.PublishRequest) (*repost.PublishResult, error) {
	if req.Title == "" {
		return nil, repost.Errorf(repost.EINVALID, "post title required")
	}
	images, err := absImagePaths(req.ImagePaths)
	if err != nil {
		return nil, err
	}

	manager, err := p.Launch()
	if err != nil {
		return nil, repost.WrapError(repost.EPUBLISH, err, "launch browser")
	}
	defer manager.Close()

	browser, err := manager.Browser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, repost.WrapError(repost.EPUBLISH, err, "open page")
	}
	defer page.Close()
	page = page.Context(ctx)

	loggedIn, err := p.login(ctx, browser, page)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		return &repost.PublishResult{Success: false, Message: "login failed"}, nil
	}

	if err := p.fillForm(ctx, page, req, images); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.cfg.SettleDelay):
	}

	return &repost.PublishResult{Success: true, Message: "published"}, nil
}

// login restores the saved session or waits for a manual login.
func (p *Publisher) login(ctx context.Context, browser *rod.Browser, page *rod.Page) (bool, error) {
	cookies, err := LoadCookies(p.cfg.CookiePath)
	switch {
	case err == nil:
		if err := browser.SetCookies(cookies); err != nil {
			return false, repost.WrapError(repost.EPUBLISH, err, "restore cookies")
		}
	case repost.ErrorCode(err) == repost.ENOTFOUND:
		p.logger.Info("no saved session", "path", p.cfg.CookiePath)
	default:
		p.logger.Warn("ignoring unreadable cookie file", "path", p.cfg.CookiePath, "error", err)
	}

	if ok, err := p.checkLogin(page); err != nil {
		return false, err
	} else if ok {
		return true, nil
	}

	p.logger.Info("waiting for manual login", "timeout", p.cfg.LoginWait)
	deadline := time.Now().Add(p.cfg.LoginWait)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(p.cfg.PollInterval):
		}

		ok, err := p.checkLogin(page)
		if err != nil {
			return false, err
		}
		if ok {
			saved, err := browser.GetCookies()
			if err == nil {
				err = SaveCookies(p.cfg.CookiePath, saved)
			}
			if err != nil {
				p.logger.Warn("could not save session", "path", p.cfg.CookiePath, "error", err)
			}
			return true, nil
		}
	}
	return false, nil
}

// checkLogin loads the home page and looks for the login marker.
func (p *Publisher) checkLogin(page *rod.Page) (bool, error) {
	if err := page.Navigate(p.cfg.HomeURL); err != nil {
		return false, repost.WrapError(repost.EPUBLISH, err, "open %s", p.cfg.HomeURL)
	}
	if err := page.WaitLoad(); err != nil {
		return false, repost.WrapError(repost.EPUBLISH, err, "load %s", p.cfg.HomeURL)
	}
	has, _, err := page.HasR(p.cfg.Selectors.LoginMarker, p.cfg.Selectors.LoginText)
	if err != nil {
		return false, repost.WrapError(repost.EPUBLISH, err, "check login state")
	}
	return !has, nil
}

func (p *Publisher) fillForm(ctx context.Context, page *rod.Page, req repost.PublishRequest, images []string) error {
	sel := p.cfg.Selectors

	ctx, cancel := context.WithTimeout(ctx, p.cfg.FormWait)
	defer cancel()
	page = page.Context(ctx)

	if err := page.Navigate(p.cfg.PublishURL); err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "open %s", p.cfg.PublishURL)
	}
	if err := page.WaitLoad(); err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "load %s", p.cfg.PublishURL)
	}

	if len(images) > 0 {
		input, err := page.Element(sel.FileInput)
		if err != nil {
			return repost.WrapError(repost.EPUBLISH, err, "find image input")
		}
		if err := input.SetFiles(images); err != nil {
			return repost.WrapError(repost.EPUBLISH, err, "upload images")
		}
	}

	title, err := page.Element(sel.Title)
	if err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "find title field")
	}
	if err := title.Input(req.Title); err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "fill title")
	}

	body, err := page.Element(sel.Body)
	if err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "find body field")
	}
	if err := body.Input(req.Body); err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "fill body")
	}

	submit, err := page.ElementR(sel.Submit, sel.SubmitText)
	if err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "find submit button")
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return repost.WrapError(repost.EPUBLISH, err, "click submit")
	}
	return nil
}

// absImagePaths resolves paths and checks that each file exists.
func absImagePaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, repost.WrapError(repost.EINVALID, err, "resolve image path %q", p)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, repost.Errorf(repost.EINVALID, "image %q not readable", p)
		}
		out = append(out, abs)
	}
	return out, nil
}
