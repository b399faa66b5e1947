package farmrpg

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"farmbot-backend/lib/restyutil"
	"farmbot-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://farmrpg.com"

// Client talks to the game server. It knows nothing about HTML structure,
// it only carries the session credential and the fixed header set the game
// expects from a browser.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseURL
	BaseUrl string
	// the session cookie string, taken verbatim from a logged-in browser
	Cookie string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseURL
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeaders(map[string]string{
		"accept":           "*/*",
		"accept-language":  "en-US,en;q=0.5",
		"x-requested-with": "XMLHttpRequest",
		"referer":          opts.BaseUrl + "/",
		"cookie":           opts.Cookie,
	})
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/farmrpg/http")
	restyutil.InstrumentClient(client, restyOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Response is the raw upstream reply. Non-200 statuses are not errors at
// this layer, classification belongs to the caller.
type Response struct {
	StatusCode int
	Body       string
}

func (r Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return Response{StatusCode: http.StatusInternalServerError}, err
	}
	return Response{StatusCode: res.StatusCode(), Body: res.String()}, nil
}

func (c *Client) Post(ctx context.Context, path string) (Response, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Post(path)
	if err != nil {
		return Response{StatusCode: http.StatusInternalServerError}, err
	}
	return Response{StatusCode: res.StatusCode(), Body: res.String()}, nil
}
