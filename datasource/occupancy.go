package datasource

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// FacilityPage reads occupancy from the facility-occupancy page. The page
// renders one card per facility; the card carries the current occupancy as
// a data-ratio attribute on its occupancy-chart canvas.
type FacilityPage struct {
	url        string
	facilityID string
	httpClient *http.Client
}

// NewFacilityPage creates an occupancy source for one facility card.
func NewFacilityPage(url, facilityID string) *FacilityPage {
	return &FacilityPage{
		url:        url,
		facilityID: facilityID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the source name
func (p *FacilityPage) Name() string {
	return "FacilityPage"
}

// FetchOccupancy performs a single GET of the page and extracts the
// occupancy percentage. Any failure (transport, missing element, value
// outside [0,100]) is returned as an error; there is no retry here.
func (p *FacilityPage) FetchOccupancy(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("page error (status %d)", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse page: %w", err)
	}

	card := findByID(doc, p.facilityID)
	if card == nil {
		return 0, fmt.Errorf("facility element %q not found", p.facilityID)
	}

	canvas := findOccupancyChart(card)
	if canvas == nil {
		return 0, fmt.Errorf("occupancy chart not found under facility %q", p.facilityID)
	}

	raw, ok := attr(canvas, "data-ratio")
	if !ok {
		return 0, fmt.Errorf("occupancy chart has no data-ratio attribute")
	}

	ratio, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid data-ratio %q: %w", raw, err)
	}

	occupancy := int(math.Round(ratio * 100))
	if occupancy < 0 || occupancy > 100 {
		return 0, fmt.Errorf("invalid occupancy value: %d", occupancy)
	}

	return occupancy, nil
}

// findByID walks the tree for the element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		if v, ok := attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findOccupancyChart finds the first descendant canvas carrying the
// occupancy-chart class.
func findOccupancyChart(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "canvas" {
		if class, ok := attr(n, "class"); ok {
			for _, c := range strings.Fields(class) {
				if c == "occupancy-chart" {
					return n
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findOccupancyChart(c); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
