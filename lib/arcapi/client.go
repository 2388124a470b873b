package arcapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"arcgrants/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("arcapi")

// BaseUrl is the ARC NCGP grants search endpoint.
const BaseUrl = "https://dataportal.arc.gov.au/NCGP/API/grants"

const (
	DefaultPageSize = 100
	// MaxPageSize is the portal's hard limit on page[size].
	MaxPageSize = 1000
)

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// BaseUrl overrides the grants endpoint, used by tests and config.
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	base := opts.BaseUrl
	if base == "" {
		base = BaseUrl
	}

	client := resty.New()
	client.SetBaseURL(base)
	// no request timeout: a stalled portal connection blocks the
	// fetch loop indefinitely
	telemetry.InstrumentResty(client, "arcapi/http")

	return &Client{http: client}
}

type FetchOptions struct {
	// FilterQuery is a query in the portal's filter mini-language,
	// usually produced by BuildFilterQuery. Empty means no filter.
	FilterQuery string
	PageSize    int
	// MaxPages stops the fetch after that many pages, 0 fetches all.
	MaxPages int
}

type pageMeta struct {
	TotalSize  int `json:"total-size"`
	TotalPages int `json:"total-pages"`
}

type pageLinks struct {
	Next string `json:"next"`
}

// Data is a pointer so a response without the top-level key can be told
// apart from an empty page.
type pageResponse struct {
	Data  *[]Grant   `json:"data"`
	Meta  *pageMeta  `json:"meta"`
	Links *pageLinks `json:"links"`
}

// FetchGrants walks the portal's pages sequentially and returns every
// record in page order. Fetching never fails as a whole: on a transport
// error, an error status, or a response missing the data key, the loop
// logs a diagnostic and returns whatever was accumulated so far.
func (c *Client) FetchGrants(ctx context.Context, opts FetchOptions) []Grant {
	ctx, span := tracer.Start(ctx, "client:FetchGrants")
	defer span.End()

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	slog.InfoContext(ctx, "fetching data from the grants portal")

	var results []Grant
	page := 1
	totalPages := 0

	for {
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("page[size]", strconv.Itoa(pageSize)).
			SetQueryParam("page[number]", strconv.Itoa(page))
		if opts.FilterQuery != "" {
			req.SetQueryParam("filter", opts.FilterQuery)
		}

		res, err := req.Get("")
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to fetch page", "page", page, "err", err)
			break
		}
		if res.IsError() {
			status := res.StatusCode()
			switch status {
			case http.StatusUnauthorized, http.StatusForbidden:
				slog.ErrorContext(ctx, "authentication error or api access denied", "page", page, "status", status)
			case http.StatusInternalServerError:
				slog.ErrorContext(ctx, "server error, check your query parameters", "page", page, "status", status)
			default:
				slog.ErrorContext(ctx, "http error", "page", page, "status", status)
			}
			break
		}

		var body pageResponse
		if err := json.Unmarshal(res.Body(), &body); err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to decode page", "page", page, "err", err)
			break
		}
		if body.Data == nil {
			slog.ErrorContext(ctx, "no data found in response", "page", page)
			break
		}

		results = append(results, *body.Data...)

		if totalPages == 0 && body.Meta != nil {
			totalPages = body.Meta.TotalPages
			slog.InfoContext(
				ctx, "grant totals",
				"grants", body.Meta.TotalSize,
				"pages", body.Meta.TotalPages,
			)
		}

		if body.Links == nil || body.Links.Next == "" {
			slog.InfoContext(ctx, "reached end of results", "page", page)
			break
		}
		if opts.MaxPages > 0 && page >= opts.MaxPages {
			slog.InfoContext(ctx, "reached maximum requested pages", "max_pages", opts.MaxPages)
			break
		}

		page++
		slog.InfoContext(ctx, "fetching page", "page", page, "total_pages", totalPages)
	}

	slog.InfoContext(ctx, "total grants fetched", "count", len(results))
	return results
}
