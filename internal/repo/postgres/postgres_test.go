package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
)

func TestPostgresStore_Append_List_Clear(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("New store: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear before test: %v", err)
	}

	uniqueURL := fmt.Sprintf("https://example.com/test-%d", time.Now().UTC().UnixNano())
	ok := &domain.Report{
		URL:        uniqueURL,
		Render:     domain.Ok(`site is up, page title: "Example"`),
		Latency:    domain.Ok("response time: 0.04 seconds (HTTP 200)"),
		Security:   domain.Ok("site uses HTTPS"),
		PageTitle:  "Example",
		HTTPStatus: 200,
		LatencyMS:  42.0,
		ObservedAt: time.Now().UTC(),
	}
	if err := store.Append(ctx, ok); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ok.ID == "" {
		t.Fatalf("expected ID to be set")
	}

	down := &domain.Report{
		URL:        "http://unreachable.test",
		Render:     domain.Failed("site could not be reached: net::ERR_NAME_NOT_RESOLVED"),
		Latency:    domain.Failed("connection error: no such host"),
		Security:   domain.Failed("site does not appear to use HTTPS"),
		ObservedAt: ok.ObservedAt.Add(time.Second),
	}
	if err := store.Append(ctx, down); err != nil {
		t.Fatalf("Append failed report: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 reports, got %d", len(list))
	}
	if list[0].ID != ok.ID || list[0].HTTPStatus != 200 || list[0].PageTitle != "Example" {
		t.Fatalf("unexpected first report: %+v", list[0])
	}
	if list[1].HTTPStatus != 0 || list[1].LatencyMS != 0 || list[1].Render.OK {
		t.Fatalf("nullable columns not restored as zero: %+v", list[1])
	}

	n, err := store.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear = %d, %v; want 2", n, err)
	}
}
