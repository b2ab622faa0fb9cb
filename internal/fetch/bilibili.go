package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"

	"github.com/gocolly/colly"
)

const defaultBiliAPIBase = "https://api.bilibili.com"

// bilibiliStrategy enumerates Bilibili collections. Spaces go through
// yt-dlp first with a dedicated web API fallback; single video URLs are
// classified by their parent grouping (collection/series) and expanded.
type bilibiliStrategy struct {
	pager   ytdlpPager
	apiBase string
}

func newBilibiliStrategy(runner Runner, apiBase string) *bilibiliStrategy {
	if apiBase == "" {
		apiBase = defaultBiliAPIBase
	}
	return &bilibiliStrategy{
		pager:   ytdlpPager{runner: runner, platform: models.PlatformBilibili},
		apiBase: apiBase,
	}
}

// windowed: explicit playlist-style URLs (favlists) support windowed
// queries; spaces and grouping constructs do not.
func (s *bilibiliStrategy) windowed(collectionURL string) bool {
	return IsPlaylistURL(collectionURL)
}

func (s *bilibiliStrategy) count(ctx context.Context, collectionURL string) (int, error) {
	if !s.windowed(collectionURL) {
		return 0, nil
	}
	return s.pager.count(ctx, collectionURL)
}

func (s *bilibiliStrategy) fetchSlice(ctx context.Context, collectionURL string, offset, limit int) ([]string, error) {
	if !s.windowed(collectionURL) {
		return s.fetchAll(ctx, collectionURL)
	}

	urls, _, err := s.pager.window(ctx, collectionURL, offset+1, offset+limit)
	return urls, err
}

// fetchAll resolves the collection shape before enumerating:
//  1. a single video URL may anchor a collection/series grouping,
//     resolved through the view API (unknown grouping types are a hard
//     error — a platform gap, not flakiness);
//  2. a space URL goes through yt-dlp first, falling back to the space
//     web API pager when yt-dlp produced zero members;
//  3. anything else pages through yt-dlp.
func (s *bilibiliStrategy) fetchAll(ctx context.Context, collectionURL string) ([]string, error) {
	if isVideoURL(collectionURL) {
		return s.expandVideoGrouping(collectionURL)
	}

	urls := s.pager.all(ctx, collectionURL)

	if len(urls) == 0 {
		if mid := spaceMID(collectionURL); mid != "" {
			logging.I("yt-dlp returned no members for space %q, falling back to web API", collectionURL)
			urls = s.fetchSpacePages(mid)
		}
	}
	return urls, nil
}

// biliEnvelope is the common Bilibili web API response envelope.
type biliEnvelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

type biliSpaceData struct {
	List struct {
		Vlist []struct {
			Bvid string `json:"bvid"`
		} `json:"vlist"`
	} `json:"list"`
	Page struct {
		Count int `json:"count"`
	} `json:"page"`
}

// fetchSpacePages pages the space web API by page number and page size,
// stopping on a short page, when the declared total is reached, or when
// the payload fails shape validation — returning whatever accumulated.
func (s *bilibiliStrategy) fetchSpacePages(mid string) []string {
	var urls []string

	for page := 1; ; page++ {
		u := fmt.Sprintf("%s%s?mid=%s&pn=%d&ps=%d",
			s.apiBase, consts.BiliSpaceArcPath, mid, page, consts.BiliSpacePageSize)

		var data biliSpaceData
		if err := s.getJSON(u, &data); err != nil {
			logging.W("Space API page %d failed for mid %s, returning %d accumulated URLs: %v",
				page, mid, len(urls), err)
			return urls
		}

		if len(data.List.Vlist) == 0 && page == 1 && data.Page.Count != 0 {
			// Declared a total but sent no members: shape is off, stop.
			logging.W("Space API payload failed shape validation for mid %s", mid)
			return urls
		}

		for _, v := range data.List.Vlist {
			if v.Bvid == "" {
				continue
			}
			urls = append(urls, watchURL(models.PlatformBilibili, v.Bvid))
		}

		if len(data.List.Vlist) < consts.BiliSpacePageSize {
			return urls
		}
		if data.Page.Count > 0 && len(urls) >= data.Page.Count {
			return urls
		}
	}
}

// biliViewData carries the grouping classification for a single video.
type biliViewData struct {
	Bvid      string `json:"bvid"`
	UgcSeason *struct {
		Type     string `json:"type"`
		SeriesID int64  `json:"series_id"`
		Sections []struct {
			Episodes []struct {
				Bvid string `json:"bvid"`
			} `json:"episodes"`
		} `json:"sections"`
	} `json:"ugc_season"`
}

// expandVideoGrouping classifies a video's parent grouping through the
// view API and delegates to per-type retrieval. A video without a
// grouping is a 1-member collection. An unrecognized grouping type is a
// hard failure: "construct we don't support yet", not "no such construct".
func (s *bilibiliStrategy) expandVideoGrouping(videoURL string) ([]string, error) {
	bvid := bvidFromURL(videoURL)
	if bvid == "" {
		return []string{videoURL}, nil
	}

	var data biliViewData
	u := fmt.Sprintf("%s%s?bvid=%s", s.apiBase, consts.BiliViewPath, bvid)
	if err := s.getJSON(u, &data); err != nil {
		logging.D(1, "View API lookup failed for %q, treating as single video: %v", videoURL, err)
		return []string{videoURL}, nil
	}

	if data.UgcSeason == nil {
		return []string{videoURL}, nil
	}

	switch data.UgcSeason.Type {
	case "season":
		var urls []string
		for _, section := range data.UgcSeason.Sections {
			for _, ep := range section.Episodes {
				if ep.Bvid == "" {
					continue
				}
				urls = append(urls, watchURL(models.PlatformBilibili, ep.Bvid))
			}
		}
		return urls, nil

	case "series":
		return s.fetchSeries(data.UgcSeason.SeriesID), nil

	default:
		return nil, fmt.Errorf("%w: %q for video %q", ErrUnsupportedGrouping, data.UgcSeason.Type, videoURL)
	}
}

type biliSeriesData struct {
	Archives []struct {
		Bvid string `json:"bvid"`
	} `json:"archives"`
}

// fetchSeries pages a series' archive list; fetch failures return the
// accumulated partial result.
func (s *bilibiliStrategy) fetchSeries(seriesID int64) []string {
	var urls []string

	for page := 1; ; page++ {
		u := fmt.Sprintf("%s%s?series_id=%d&pn=%d&ps=%d",
			s.apiBase, consts.BiliSeriesPath, seriesID, page, consts.BiliSpacePageSize)

		var data biliSeriesData
		if err := s.getJSON(u, &data); err != nil {
			logging.W("Series API page %d failed for series %d: %v", page, seriesID, err)
			return urls
		}

		for _, a := range data.Archives {
			if a.Bvid == "" {
				continue
			}
			urls = append(urls, watchURL(models.PlatformBilibili, a.Bvid))
		}

		if len(data.Archives) < consts.BiliSpacePageSize {
			return urls
		}
	}
}

// getJSON fetches a web API URL and unmarshals the enveloped data field.
func (s *bilibiliStrategy) getJSON(u string, out any) error {
	c := colly.NewCollector()

	var (
		body     []byte
		visitErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(u); err != nil {
		return fmt.Errorf("error visiting API URL %q: %w", u, err)
	}
	if visitErr != nil {
		return fmt.Errorf("error response from API URL %q: %w", u, visitErr)
	}

	var envelope biliEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse API envelope from %q: %w", u, err)
	}
	if envelope.Code != 0 {
		return fmt.Errorf("API error code %d from %q", envelope.Code, u)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("API payload from %q has no data", u)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to parse API data from %q: %w", u, err)
	}
	return nil
}

// bvidFromURL pulls the BV identifier out of a Bilibili video URL.
func bvidFromURL(videoURL string) string {
	m := bvidRegex.FindStringSubmatch(videoURL)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}
