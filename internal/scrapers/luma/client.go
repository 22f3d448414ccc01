package luma

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"outage-scraper/internal/telemetry"
	"outage-scraper/lib/restyutil"
	libtelemetry "outage-scraper/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/luma")

const (
	DefaultUrl = "https://lumapr.com/?lang=en"
	// the site answers 403 to clients that do not look like a browser
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36"
)

const (
	report_client_fetch_page = "client.fetch-page"
	report_client_scrape     = "client.scrape"
	report_client_save_pages = "client.save-pages"
)

type ClientOptions struct {
	Url       string `json:"url" env:"URL"`
	UserAgent string `json:"user_agent" env:"USER_AGENT"`
	// 0 keeps the transport default.
	TimeoutSeconds          int  `json:"timeout_seconds"`
	DisableCloudflareBypass bool `json:"disable_cloudflare_bypass"`
	// SaveDir keeps a copy of every fetched page when set, the copies can
	// be replayed with `outage-scraper parse`.
	SaveDir string `json:"save_dir" env:"SAVE_DIR"`
}

type Client struct {
	http *resty.Client
	url  string
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) Client {
	if opts.Url == "" {
		opts.Url = DefaultUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	client := resty.New()
	if !opts.DisableCloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("User-Agent", opts.UserAgent)
	if opts.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(opts.TimeoutSeconds) * time.Second)
	}

	libtelemetry.InstrumentResty(client, "scrapers/luma/http")

	if opts.SaveDir != "" {
		output, err := restyutil.NewFilesystemOutput(opts.SaveDir)
		if err != nil {
			tel.ReportWarning(report_client_save_pages, err, opts.SaveDir)
		} else {
			restyutil.SaveResponses(client, output, ".html")
		}
	}

	return Client{
		http: client,
		url:  opts.Url,
		tel:  tel,
	}
}

// FetchPage performs a single GET of the outage page and returns its html.
func (c Client) FetchPage(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "FetchPage")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_page, fmt.Errorf("fetch: %w", err), c.url)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", &FetchError{Url: c.url, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		c.tel.ReportBroken(report_client_fetch_page, res.Status(), c.url)
		span.SetStatus(codes.Error, res.Status())
		return "", &FetchError{Url: c.url, StatusCode: res.StatusCode()}
	}

	// res.String() trims the body, the page is returned as sent
	body := string(res.Body())
	span.SetAttributes(attribute.Int("body_size", len(body)))
	c.tel.ReportDebug("fetched page", c.url, len(body))
	return body, nil
}

// Scrape fetches and parses the outage page.
func (c Client) Scrape(ctx context.Context) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	page, err := c.FetchPage(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot, err := ParseSnapshot(ctx, page)
	if err != nil {
		c.tel.ReportBroken(report_client_scrape, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse page")
		return Snapshot{}, err
	}

	c.tel.ReportDebug("found timestamp label", snapshot.Label)
	c.tel.ReportDebug("parsed timestamp", snapshot.PublishedTimestamp)
	c.tel.ReportCount("regions", int64(len(snapshot.Regions)))
	span.SetAttributes(
		attribute.String("published_timestamp", snapshot.PublishedTimestamp),
		attribute.Int("regions", len(snapshot.Regions)),
	)

	return snapshot, nil
}
