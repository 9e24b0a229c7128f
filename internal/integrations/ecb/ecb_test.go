package ecb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/config"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<gesmes:subject>Reference rates</gesmes:subject>
	<gesmes:Sender>
		<gesmes:name>European Central Bank</gesmes:name>
	</gesmes:Sender>
	<Cube>
		<Cube time="2025-11-10">
			<Cube currency="USD" rate="1.0852"/>
			<Cube currency="GBP" rate="0.8421"/>
			<Cube currency="BRL" rate="6.1530"/>
			<Cube currency="JPY" rate="163.95"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func TestParseDailyFeed(t *testing.T) {
	date, rates, err := parseDailyFeed([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if date != "2025-11-10" {
		t.Fatalf("date = %q, want 2025-11-10", date)
	}
	if len(rates) != 4 {
		t.Fatalf("rates = %d, want 4", len(rates))
	}
	if want := decimal.RequireFromString("1.0852"); !rates["USD"].Equal(want) {
		t.Fatalf("USD = %s, want %s", rates["USD"], want)
	}
}

func TestParseDailyFeedErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not xml", "{}"},
		{"no cubes", `<?xml version="1.0"?><gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01"></gesmes:Envelope>`},
		{"bad rate", `<Envelope><Cube><Cube time="2025-11-10"><Cube currency="USD" rate="abc"/></Cube></Cube></Envelope>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseDailyFeed([]byte(tt.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(&config.Config{ECBURL: url}, log)
}

func TestRatesAndConvert(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	ctx := context.Background()

	date, rates, err := c.Rates(ctx)
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	if date != "2025-11-10" || len(rates) != 4 {
		t.Fatalf("unexpected rate table: %s, %d entries", date, len(rates))
	}

	// Second call is served from the cache.
	if _, _, err := c.Rates(ctx); err != nil {
		t.Fatalf("cached rates: %v", err)
	}
	if calls != 1 {
		t.Fatalf("feed fetched %d times, want 1", calls)
	}

	got, err := c.Convert(ctx, "GBP", decimal.RequireFromString("10.00"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if want := decimal.RequireFromString("8.42"); !got.Equal(want) {
		t.Fatalf("convert = %s, want %s", got, want)
	}

	if _, err := c.Convert(ctx, "XXX", decimal.New(1, 0)); err == nil {
		t.Fatal("expected error for unknown currency")
	}
}

func TestRatesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	if _, _, err := c.Rates(context.Background()); err == nil {
		t.Fatal("expected error from upstream failure")
	}
}
