package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const facilityID = "facility-f8636073"

func facilityPage(ratio string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<div id="facility-other">
  <canvas class="occupancy-chart" data-ratio="0.99"></canvas>
</div>
<div id="%s" class="facility-card">
  <h3>Schumann Fitness Center</h3>
  <canvas class="chart occupancy-chart" data-ratio="%s"></canvas>
</div>
</body></html>`, facilityID, ratio)
}

func serve(t *testing.T, body string, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOccupancyReadsRatio(t *testing.T) {
	srv := serve(t, facilityPage("0.42"), http.StatusOK)
	src := NewFacilityPage(srv.URL, facilityID)

	got, err := src.FetchOccupancy(context.Background())
	if err != nil {
		t.Fatalf("FetchOccupancy: %v", err)
	}
	if got != 42 {
		t.Errorf("occupancy = %d, want 42", got)
	}
}

func TestFetchOccupancyRoundsRatio(t *testing.T) {
	srv := serve(t, facilityPage("0.678"), http.StatusOK)
	src := NewFacilityPage(srv.URL, facilityID)

	got, err := src.FetchOccupancy(context.Background())
	if err != nil {
		t.Fatalf("FetchOccupancy: %v", err)
	}
	if got != 68 {
		t.Errorf("occupancy = %d, want 68", got)
	}
}

func TestFetchOccupancyPicksCorrectFacility(t *testing.T) {
	// The other facility's card reads 0.99; ours reads 0.10.
	srv := serve(t, facilityPage("0.10"), http.StatusOK)
	src := NewFacilityPage(srv.URL, facilityID)

	got, err := src.FetchOccupancy(context.Background())
	if err != nil {
		t.Fatalf("FetchOccupancy: %v", err)
	}
	if got != 10 {
		t.Errorf("occupancy = %d, want 10", got)
	}
}

func TestFetchOccupancyOutOfRange(t *testing.T) {
	srv := serve(t, facilityPage("1.37"), http.StatusOK)
	src := NewFacilityPage(srv.URL, facilityID)

	_, err := src.FetchOccupancy(context.Background())
	if err == nil {
		t.Fatal("expected error for ratio 1.37")
	}
	if !strings.Contains(err.Error(), "invalid occupancy value") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFetchOccupancyMissingFacility(t *testing.T) {
	srv := serve(t, facilityPage("0.42"), http.StatusOK)
	src := NewFacilityPage(srv.URL, "facility-nonexistent")

	if _, err := src.FetchOccupancy(context.Background()); err == nil {
		t.Fatal("expected error for missing facility element")
	}
}

func TestFetchOccupancyMissingRatioAttribute(t *testing.T) {
	body := fmt.Sprintf(`<div id="%s"><canvas class="occupancy-chart"></canvas></div>`, facilityID)
	srv := serve(t, body, http.StatusOK)
	src := NewFacilityPage(srv.URL, facilityID)

	if _, err := src.FetchOccupancy(context.Background()); err == nil {
		t.Fatal("expected error for missing data-ratio attribute")
	}
}

func TestFetchOccupancyNonNumericRatio(t *testing.T) {
	srv := serve(t, facilityPage("n/a"), http.StatusOK)
	src := NewFacilityPage(srv.URL, facilityID)

	if _, err := src.FetchOccupancy(context.Background()); err == nil {
		t.Fatal("expected error for non-numeric ratio")
	}
}

func TestFetchOccupancyServerError(t *testing.T) {
	srv := serve(t, "maintenance", http.StatusServiceUnavailable)
	src := NewFacilityPage(srv.URL, facilityID)

	if _, err := src.FetchOccupancy(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
